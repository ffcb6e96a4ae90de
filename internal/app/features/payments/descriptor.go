// internal/app/features/payments/descriptor.go
package payments

import (
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/features/shared"
	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "purpose", Label: "Purpose", Kind: formdraft.Text},
	{Name: "is_paid", Label: "Paid", Kind: formdraft.Bool},
	{Name: "paid_at", Label: "Paid on", Kind: formdraft.Date},
	{Name: "transfer_screenshot", Label: "Transfer screenshot", Kind: formdraft.File},
	{Name: "remarks", Label: "Remarks", Kind: formdraft.LongText},
}}

var filters = []crud.Filter{
	{Name: "status", Label: "Status", Choices: shared.Statuses(
		models.StatusPendingVerification, models.StatusApproved, models.StatusRejected, models.StatusDeleted)},
	{Name: "is_paid", Label: "Paid", Choices: []formdraft.Choice{
		{Value: "1", Label: "Paid"},
		{Value: "0", Label: "Unpaid"},
	}},
}

// Descriptor describes payments. Payments are raised by members, so the
// console edits and verifies them but never creates one.
func Descriptor() crud.Descriptor[models.Payment] {
	return crud.Descriptor[models.Payment]{
		Kind:     models.KindPayment,
		Title:    "Payments",
		Singular: "Payment",
		Resource: "/payments",

		ID:   func(p models.Payment) string { return strconv.FormatInt(p.ID, 10) },
		Name: func(p models.Payment) string { return p.Reference },
		Subject: func(p models.Payment) actionpolicy.Subject {
			return actionpolicy.Subject{Status: models.ParseStatus(p.Status)}
		},

		Columns: []crud.Column[models.Payment]{
			{Label: "Reference", Value: func(p models.Payment) string { return p.Reference }},
			{Label: "Member", Value: func(p models.Payment) string { return p.UserName }},
			{Label: "Amount", Value: func(p models.Payment) string { return p.Currency + " " + p.Amount }},
			{Label: "Purpose", Value: func(p models.Payment) string { return p.Purpose }},
			{Label: "Status", Value: func(p models.Payment) string { return p.Status }, Status: true},
		},
		Filters: filters,

		Schema: schema,
		ToDraft: func(p models.Payment) formdraft.Draft {
			return formdraft.Draft{
				"purpose":             formdraft.TextValue(p.Purpose),
				"is_paid":             formdraft.BoolValue(p.IsPaid),
				"paid_at":             formdraft.TextValue(p.PaidAt),
				"transfer_screenshot": formdraft.FileValue(p.TransferScreenshot),
				"remarks":             formdraft.TextValue(p.Remarks),
			}
		},

		NoCreate: true,
		Toolbar:  []crud.ToolbarLink{{Label: "Export XLSX", URL: "/payments/export"}},
	}
}
