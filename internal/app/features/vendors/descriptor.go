// internal/app/features/vendors/descriptor.go
package vendors

import (
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/features/shared"
	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "contact_name", Label: "Contact name", Kind: formdraft.Text, Required: true, Tab: "contact"},
	{Name: "email", Label: "Email", Kind: formdraft.Text, Required: true, Tab: "contact"},
	{Name: "phone", Label: "Phone", Kind: formdraft.Text, Tab: "contact"},
	{Name: "category", Label: "Category", Kind: formdraft.Select, Lookup: CategoriesTable, Required: true, Tab: "contact"},

	{Name: "company_name", Label: "Company name", Kind: formdraft.Text, Required: true, Tab: "company"},
	{Name: "company_reg_no", Label: "Registration number", Kind: formdraft.Text, Required: true, Tab: "company"},
	{Name: "company_address", Label: "Address", Kind: formdraft.LongText, Tab: "company"},
	{Name: "website", Label: "Website", Kind: formdraft.Text, Tab: "company"},
	{Name: "logo", Label: "Logo", Kind: formdraft.File, Tab: "company"},
}}

// Descriptor describes vendors. Adding one goes through the wizard.
func Descriptor() crud.Descriptor[models.Vendor] {
	return crud.Descriptor[models.Vendor]{
		Kind:     models.KindVendor,
		Title:    "Vendors",
		Singular: "Vendor",
		Resource: "/vendors",

		ID:   func(v models.Vendor) string { return strconv.FormatInt(v.ID, 10) },
		Name: func(v models.Vendor) string { return v.CompanyName },
		Subject: func(v models.Vendor) actionpolicy.Subject {
			return actionpolicy.Subject{Status: models.ParseStatus(v.Status)}
		},

		Columns: []crud.Column[models.Vendor]{
			{Label: "Company", Value: func(v models.Vendor) string { return v.CompanyName }},
			{Label: "Contact", Value: func(v models.Vendor) string { return v.ContactName }},
			{Label: "Category", Value: func(v models.Vendor) string { return v.Category }},
			{Label: "Status", Value: func(v models.Vendor) string { return v.Status }, Status: true},
		},
		Filters: []crud.Filter{
			{Name: "category", Label: "Category", Lookup: CategoriesTable},
			{Name: "status", Label: "Status", Choices: shared.Statuses(
				models.StatusActive, models.StatusPendingApproval, models.StatusRejected, models.StatusDeleted)},
		},

		Schema:  schema,
		Tabs:    shared.Tabs("contact", "Contact", "company", "Company"),
		ToDraft: toDraft,

		Toolbar:  []crud.ToolbarLink{{Label: "Register vendor", URL: "/vendors/new?restart=1"}},
		NoCreate: true,
	}
}

func toDraft(v models.Vendor) formdraft.Draft {
	return formdraft.Draft{
		"contact_name":    formdraft.TextValue(v.ContactName),
		"email":           formdraft.TextValue(v.Email),
		"phone":           formdraft.TextValue(v.Phone),
		"category":        formdraft.TextValue(v.Category),
		"company_name":    formdraft.TextValue(v.CompanyName),
		"company_reg_no":  formdraft.TextValue(v.CompanyRegNo),
		"company_address": formdraft.TextValue(v.CompanyAddress),
		"website":         formdraft.TextValue(v.Website),
		"logo":            formdraft.FileValue(v.Logo),
	}
}
