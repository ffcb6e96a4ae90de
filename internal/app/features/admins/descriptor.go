// internal/app/features/admins/descriptor.go
package admins

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/authz"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "name", Label: "Name", Kind: formdraft.Text, Required: true},
	{Name: "email", Label: "Email", Kind: formdraft.Text, Required: true},
	{Name: "phone", Label: "Phone", Kind: formdraft.Text},
	{Name: "role", Label: "Role", Kind: formdraft.Select, Required: true},
	{Name: "password", Label: "Password", Kind: formdraft.Password, Help: "Leave blank to keep the current password."},
}}

func createSchema() *formdraft.Schema {
	s := schema.Without("password")
	s.Fields = append(s.Fields, formdraft.Field{Name: "password", Label: "Password", Kind: formdraft.Password, Required: true})
	return &s
}

func statusChoices() []formdraft.Choice {
	return []formdraft.Choice{
		{Value: string(models.StatusActive), Label: models.StatusActive.Label()},
		{Value: string(models.StatusInactive), Label: models.StatusInactive.Label()},
		{Value: string(models.StatusDeleted), Label: models.StatusDeleted.Label()},
	}
}

func roleChoices(roles []models.Role) []formdraft.Choice {
	out := make([]formdraft.Choice, len(roles))
	for i, r := range roles {
		out[i] = formdraft.Choice{Value: string(r), Label: r.Label()}
	}
	return out
}

// Descriptor describes admin accounts. Every edit and removal is gated on
// the actor-vs-target role rule, and the role select only offers roles the
// signed-in admin may grant.
func Descriptor() crud.Descriptor[models.User] {
	return crud.Descriptor[models.User]{
		Kind:     models.KindAdmin,
		Title:    "Admins",
		Singular: "Admin",
		Resource: "/admins",

		ID:   func(u models.User) string { return strconv.FormatInt(u.ID, 10) },
		Name: func(u models.User) string { return u.Name },
		Subject: func(u models.User) actionpolicy.Subject {
			return actionpolicy.Subject{Status: u.StatusValue(), Role: u.RoleValue()}
		},

		Columns: []crud.Column[models.User]{
			{Label: "Name", Value: func(u models.User) string { return u.Name }},
			{Label: "Email", Value: func(u models.User) string { return u.Email }},
			{Label: "Role", Value: func(u models.User) string { return u.RoleValue().Label() }},
			{Label: "Status", Value: func(u models.User) string { return u.Status }, Status: true},
		},
		Filters: []crud.Filter{
			{Name: "role", Label: "Role", Choices: roleChoices(models.AdminRoles())},
			{Name: "status", Label: "Status", Choices: statusChoices()},
		},

		Schema:       schema,
		CreateSchema: createSchema(),
		ToDraft: func(u models.User) formdraft.Draft {
			return formdraft.Draft{
				"name":  formdraft.TextValue(u.Name),
				"email": formdraft.TextValue(u.Email),
				"phone": formdraft.TextValue(u.Phone),
				"role":  formdraft.TextValue(u.Role),
			}
		},

		Options: func(r *http.Request, f formdraft.Field) ([]formdraft.Choice, bool) {
			if f.Name != "role" {
				return nil, false
			}
			actor, _ := authz.Role(r)
			return roleChoices(authz.AssignableRoles(actor)), true
		},
		Authorize: authorize,
	}
}

// authorize refuses a submission that would hand out a role the actor does
// not hold authority over.
func authorize(r *http.Request, d formdraft.Draft) string {
	target := models.ParseRole(d.Text("role"))
	if !target.IsAdmin() {
		return "Choose an admin role."
	}
	if !authz.CanActOn(r, target) {
		return "You are not allowed to assign the " + target.Label() + " role."
	}
	return ""
}
