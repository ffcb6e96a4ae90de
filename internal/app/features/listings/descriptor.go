// internal/app/features/listings/descriptor.go
package listings

import (
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/features/shared"
	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// CategoriesTable is the lookup table of listing categories.
const CategoriesTable = "listing_categories"

var tabs = shared.Tabs("details", "Details", "gallery", "Gallery")

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "title", Label: "Title", Kind: formdraft.Text, Required: true, Tab: "details"},
	{Name: "category", Label: "Category", Kind: formdraft.Select, Lookup: CategoriesTable, Required: true, Tab: "details"},
	{Name: "price", Label: "Price", Kind: formdraft.Text, Tab: "details"},
	{Name: "description", Label: "Description", Kind: formdraft.LongText, Tab: "details"},
	{Name: "expire_at", Label: "Expires", Kind: formdraft.ExpiryDate, Tab: "details"},
	{Name: "image", Label: "Image", Kind: formdraft.File, Tab: "details"},
	shared.GalleryField("galleries", "Gallery", "gallery"),
}}

// Descriptor describes vendor marketplace listings.
func Descriptor() crud.Descriptor[models.Listing] {
	return crud.Descriptor[models.Listing]{
		Kind:     models.KindListing,
		Title:    "Listings",
		Singular: "Listing",
		Resource: "/listings",

		ID:   func(l models.Listing) string { return strconv.FormatInt(l.ID, 10) },
		Name: func(l models.Listing) string { return l.Title },
		Subject: func(l models.Listing) actionpolicy.Subject {
			return actionpolicy.Subject{Status: models.ParseStatus(l.Status)}
		},

		Columns: []crud.Column[models.Listing]{
			{Label: "Title", Value: func(l models.Listing) string { return l.Title }},
			{Label: "Vendor", Value: func(l models.Listing) string { return l.VendorName }},
			{Label: "Category", Value: func(l models.Listing) string { return l.Category }},
			{Label: "Price", Value: func(l models.Listing) string { return l.Price }},
			{Label: "Status", Value: func(l models.Listing) string { return l.Status }, Status: true},
		},
		Filters: []crud.Filter{
			{Name: "category", Label: "Category", Lookup: CategoriesTable},
			{Name: "status", Label: "Status", Choices: shared.Statuses(
				models.StatusPendingApproval, models.StatusApproved, models.StatusRejected,
				models.StatusExpired, models.StatusDeleted)},
		},

		Schema: schema,
		Tabs:   tabs,
		ToDraft: func(l models.Listing) formdraft.Draft {
			return formdraft.Draft{
				"title":       formdraft.TextValue(l.Title),
				"category":    formdraft.TextValue(l.Category),
				"price":       formdraft.TextValue(l.Price),
				"description": formdraft.TextValue(l.Description),
				"expire_at":   formdraft.TextValue(l.ExpireAt),
				"image":       formdraft.FileValue(l.Image),
				"galleries":   shared.GalleryValue(l.Galleries),
			}
		},
	}
}
