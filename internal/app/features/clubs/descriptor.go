// internal/app/features/clubs/descriptor.go
package clubs

import (
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/features/shared"
	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "name", Label: "Name", Kind: formdraft.Text, Required: true},
	{Name: "description", Label: "Description", Kind: formdraft.LongText},
	{Name: "founded_at", Label: "Founded", Kind: formdraft.Date},
	{Name: "logo", Label: "Logo", Kind: formdraft.File},
	{Name: "is_public", Label: "Listed publicly", Kind: formdraft.Bool},
	{Name: "security_questions", Label: "Security questions", Kind: formdraft.Collection,
		Help: "Asked when a member joins the club.",
		Columns: []formdraft.Field{
			{Name: "question", Label: "Question", Kind: formdraft.Text, Required: true},
			{Name: "answer", Label: "Answer", Kind: formdraft.Text, Required: true},
		}},
}}

// Descriptor describes clubs.
func Descriptor() crud.Descriptor[models.Club] {
	return crud.Descriptor[models.Club]{
		Kind:     models.KindClub,
		Title:    "Clubs",
		Singular: "Club",
		Resource: "/clubs",

		ID:   func(c models.Club) string { return strconv.FormatInt(c.ID, 10) },
		Name: func(c models.Club) string { return c.Name },
		Subject: func(c models.Club) actionpolicy.Subject {
			return actionpolicy.Subject{Status: models.ParseStatus(c.Status)}
		},

		Columns: []crud.Column[models.Club]{
			{Label: "Name", Value: func(c models.Club) string { return c.Name }},
			{Label: "Members", Value: func(c models.Club) string { return strconv.Itoa(c.MemberCount) }},
			{Label: "Status", Value: func(c models.Club) string { return c.Status }, Status: true},
		},
		Filters: []crud.Filter{
			{Name: "status", Label: "Status", Choices: shared.Statuses(
				models.StatusActive, models.StatusPendingApproval, models.StatusInactive, models.StatusDeleted)},
		},

		Schema:  schema,
		ToDraft: toDraft,
	}
}

func toDraft(c models.Club) formdraft.Draft {
	questions := make([]formdraft.Item, len(c.SecurityQuestions))
	for i, q := range c.SecurityQuestions {
		questions[i] = formdraft.Item{
			ID:     shared.ID(q.ID),
			Values: map[string]string{"question": q.Question, "answer": q.Answer},
		}
	}
	return formdraft.Draft{
		"name":               formdraft.TextValue(c.Name),
		"description":        formdraft.TextValue(c.Description),
		"founded_at":         formdraft.TextValue(c.FoundedAt),
		"logo":               formdraft.FileValue(c.Logo),
		"is_public":          formdraft.BoolValue(c.IsPublic),
		"security_questions": formdraft.ItemsValue(questions),
	}
}
