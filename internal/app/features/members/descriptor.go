// internal/app/features/members/descriptor.go
package members

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/app/system/tabsync"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// TiersTable is the lookup table holding membership tiers.
const TiersTable = "tiers"

var tabs = tabsync.Tabs{
	List: []tabsync.Tab{
		{Name: "profile", Label: "Profile"},
		{Name: "vehicle", Label: "Vehicle"},
		{Name: "membership", Label: "Membership"},
	},
	Default: "profile",
}

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "name", Label: "Name", Kind: formdraft.Text, Required: true, Tab: "profile"},
	{Name: "email", Label: "Email", Kind: formdraft.Text, Required: true, Tab: "profile"},
	{Name: "phone", Label: "Phone", Kind: formdraft.Text, Tab: "profile"},
	{Name: "nric", Label: "NRIC", Kind: formdraft.Text, Tab: "profile"},
	{Name: "birth_date", Label: "Birth date", Kind: formdraft.Date, Tab: "profile"},
	{Name: "img_profile", Label: "Profile photo", Kind: formdraft.File, Tab: "profile"},
	{Name: "img_nric", Label: "NRIC photo", Kind: formdraft.File, Tab: "profile"},
	{Name: "is_public", Label: "Public profile", Kind: formdraft.Bool, Tab: "profile"},

	{Name: "vehicle_plate", Label: "Plate number", Kind: formdraft.Text, Tab: "vehicle"},
	{Name: "vehicle_model", Label: "Model", Kind: formdraft.Text, Tab: "vehicle"},
	{Name: "vehicle_color", Label: "Colour", Kind: formdraft.Text, Tab: "vehicle"},

	{Name: "tier", Label: "Tier", Kind: formdraft.Select, Lookup: TiersTable, Tab: "membership"},
	{Name: "member_expire", Label: "Membership expires", Kind: formdraft.ExpiryDate, Tab: "membership",
		Help: "Defaults to today when left empty."},
}}

// Descriptor describes club members.
func Descriptor() crud.Descriptor[models.User] {
	return crud.Descriptor[models.User]{
		Kind:     models.KindMember,
		Title:    "Members",
		Singular: "Member",
		Resource: "/users",

		ID:   func(u models.User) string { return strconv.FormatInt(u.ID, 10) },
		Name: func(u models.User) string { return u.Name },
		Subject: func(u models.User) actionpolicy.Subject {
			return actionpolicy.Subject{Status: u.StatusValue()}
		},

		Columns: []crud.Column[models.User]{
			{Label: "Name", Value: func(u models.User) string { return u.Name }},
			{Label: "Email", Value: func(u models.User) string { return u.Email }},
			{Label: "Tier", Value: func(u models.User) string { return u.Tier }},
			{Label: "Expires", Value: func(u models.User) string { return formdraft.InputDate(u.MemberExpire) }},
			{Label: "Status", Value: func(u models.User) string { return u.Status }, Status: true},
		},
		Filters: []crud.Filter{
			{Name: "tier", Label: "Tier", Lookup: TiersTable},
			{Name: "status", Label: "Status", Choices: []formdraft.Choice{
				{Value: string(models.StatusActive), Label: models.StatusActive.Label()},
				{Value: string(models.StatusPendingApproval), Label: models.StatusPendingApproval.Label()},
				{Value: string(models.StatusPendingPayment), Label: models.StatusPendingPayment.Label()},
				{Value: string(models.StatusExpired), Label: models.StatusExpired.Label()},
				{Value: string(models.StatusDeleted), Label: models.StatusDeleted.Label()},
			}},
		},

		Schema:  schema,
		Tabs:    tabs,
		ToDraft: toDraft,

		ViewExtra: vendorLink,
	}
}

func toDraft(u models.User) formdraft.Draft {
	return formdraft.Draft{
		"name":          formdraft.TextValue(u.Name),
		"email":         formdraft.TextValue(u.Email),
		"phone":         formdraft.TextValue(u.Phone),
		"nric":          formdraft.TextValue(u.NRIC),
		"birth_date":    formdraft.TextValue(u.BirthDate),
		"img_profile":   formdraft.FileValue(u.ImgProfile),
		"img_nric":      formdraft.FileValue(u.ImgNRIC),
		"is_public":     formdraft.BoolValue(u.IsPublic),
		"vehicle_plate": formdraft.TextValue(u.VehiclePlate),
		"vehicle_model": formdraft.TextValue(u.VehicleModel),
		"vehicle_color": formdraft.TextValue(u.VehicleColor),
		"tier":          formdraft.TextValue(u.Tier),
		"member_expire": formdraft.TextValue(u.MemberExpire),
	}
}

// vendorLink offers vendor registration for members who are not vendors
// yet. The wizard returns to this member's edit page when it finishes.
func vendorLink(u models.User) template.HTML {
	if u.IsVendor {
		return ""
	}
	back := fmt.Sprintf("/members/%d/edit", u.ID)
	q := url.Values{"email": {u.Email}, "callback_url": {back}}
	return template.HTML(`<a class="btn btn-secondary" href="/vendors/new?` +
		template.HTMLEscapeString(q.Encode()) + `">Register as vendor</a>`)
}
