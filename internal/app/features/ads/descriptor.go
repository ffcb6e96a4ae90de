// internal/app/features/ads/descriptor.go
package ads

import (
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/features/shared"
	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

var placements = []formdraft.Choice{
	{Value: "home_banner", Label: "Home banner"},
	{Value: "home_sidebar", Label: "Home sidebar"},
	{Value: "events", Label: "Events page"},
	{Value: "marketplace", Label: "Marketplace"},
}

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "title", Label: "Title", Kind: formdraft.Text, Required: true},
	{Name: "link", Label: "Link", Kind: formdraft.Text},
	{Name: "placement", Label: "Placement", Kind: formdraft.Select, Choices: placements, Required: true},
	{Name: "start_date", Label: "Starts", Kind: formdraft.Date},
	{Name: "end_date", Label: "Ends", Kind: formdraft.Date},
	{Name: "enable_ads", Label: "Enabled", Kind: formdraft.Bool},
	{Name: "image", Label: "Image", Kind: formdraft.File},
}}

// Descriptor describes sponsor advertisements.
func Descriptor() crud.Descriptor[models.Ad] {
	return crud.Descriptor[models.Ad]{
		Kind:     models.KindAd,
		Title:    "Ads",
		Singular: "Ad",
		Resource: "/ads",

		ID:   func(a models.Ad) string { return strconv.FormatInt(a.ID, 10) },
		Name: func(a models.Ad) string { return a.Title },
		Subject: func(a models.Ad) actionpolicy.Subject {
			return actionpolicy.Subject{Status: models.ParseStatus(a.Status)}
		},

		Columns: []crud.Column[models.Ad]{
			{Label: "Title", Value: func(a models.Ad) string { return a.Title }},
			{Label: "Placement", Value: func(a models.Ad) string { return a.Placement }},
			{Label: "Enabled", Value: func(a models.Ad) string {
				if a.EnableAds {
					return "Yes"
				}
				return "No"
			}},
			{Label: "Status", Value: func(a models.Ad) string { return a.Status }, Status: true},
		},
		Filters: []crud.Filter{
			{Name: "placement", Label: "Placement", Choices: placements},
			{Name: "status", Label: "Status", Choices: shared.Statuses(
				models.StatusActive, models.StatusPendingApproval, models.StatusInactive, models.StatusDeleted)},
		},

		Schema: schema,
		ToDraft: func(a models.Ad) formdraft.Draft {
			return formdraft.Draft{
				"title":      formdraft.TextValue(a.Title),
				"link":       formdraft.TextValue(a.Link),
				"placement":  formdraft.TextValue(a.Placement),
				"start_date": formdraft.TextValue(a.StartDate),
				"end_date":   formdraft.TextValue(a.EndDate),
				"enable_ads": formdraft.BoolValue(a.EnableAds),
				"image":      formdraft.FileValue(a.Image),
			}
		},
	}
}
