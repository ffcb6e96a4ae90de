// internal/app/features/events/descriptor.go
package events

import (
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/features/shared"
	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

var tabs = shared.Tabs("details", "Details", "gallery", "Gallery")

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "title", Label: "Title", Kind: formdraft.Text, Required: true, Tab: "details"},
	{Name: "venue", Label: "Venue", Kind: formdraft.Text, Tab: "details"},
	{Name: "start_at", Label: "Starts", Kind: formdraft.DateTime, Required: true, Tab: "details"},
	{Name: "end_at", Label: "Ends", Kind: formdraft.DateTime, Tab: "details"},
	{Name: "description", Label: "Description", Kind: formdraft.LongText, Tab: "details"},
	{Name: "is_paid", Label: "Paid event", Kind: formdraft.Bool, Tab: "details"},
	{Name: "fee", Label: "Fee", Kind: formdraft.Text, Tab: "details"},
	{Name: "image", Label: "Cover image", Kind: formdraft.File, Tab: "details"},
	shared.GalleryField("galleries", "Gallery", "gallery"),
}}

// Descriptor describes club events. Pending events can be approved or
// rejected from the list menu and the detail page.
func Descriptor() crud.Descriptor[models.Event] {
	return crud.Descriptor[models.Event]{
		Kind:     models.KindEvent,
		Title:    "Events",
		Singular: "Event",
		Resource: "/events",

		ID:   func(e models.Event) string { return strconv.FormatInt(e.ID, 10) },
		Name: func(e models.Event) string { return e.Title },
		Subject: func(e models.Event) actionpolicy.Subject {
			return actionpolicy.Subject{Status: models.ParseStatus(e.Status)}
		},

		Columns: []crud.Column[models.Event]{
			{Label: "Title", Value: func(e models.Event) string { return e.Title }},
			{Label: "Club", Value: func(e models.Event) string { return e.ClubName }},
			{Label: "Starts", Value: func(e models.Event) string { return e.StartAt }},
			{Label: "Status", Value: func(e models.Event) string { return e.Status }, Status: true},
		},
		Filters: []crud.Filter{
			{Name: "status", Label: "Status", Choices: shared.Statuses(
				models.StatusPendingApproval, models.StatusApproved, models.StatusRejected, models.StatusDeleted)},
		},

		Schema: schema,
		Tabs:   tabs,
		ToDraft: func(e models.Event) formdraft.Draft {
			return formdraft.Draft{
				"title":       formdraft.TextValue(e.Title),
				"venue":       formdraft.TextValue(e.Venue),
				"start_at":    formdraft.TextValue(e.StartAt),
				"end_at":      formdraft.TextValue(e.EndAt),
				"description": formdraft.TextValue(e.Description),
				"is_paid":     formdraft.BoolValue(e.IsPaid),
				"fee":         formdraft.TextValue(e.Fee),
				"image":       formdraft.FileValue(e.Image),
				"galleries":   shared.GalleryValue(e.Galleries),
			}
		},
	}
}
