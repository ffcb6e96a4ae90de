// Package shared holds descriptor pieces several entity features reuse.
package shared

import (
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// GalleryField is an image gallery edited row by row.
func GalleryField(name, label, tab string) formdraft.Field {
	return formdraft.Field{
		Name:  name,
		Label: label,
		Kind:  formdraft.Collection,
		Tab:   tab,
		Columns: []formdraft.Field{
			{Name: "image", Label: "Image", Kind: formdraft.File},
			{Name: "caption", Label: "Caption", Kind: formdraft.Text},
			{Name: "sort", Label: "Order", Kind: formdraft.Text},
		},
	}
}

// GalleryValue loads gallery images into a collection value.
func GalleryValue(images []models.GalleryImage) formdraft.Value {
	items := make([]formdraft.Item, len(images))
	for i, g := range images {
		it := formdraft.Item{
			ID: ID(g.ID),
			Values: map[string]string{
				"caption": g.Caption,
				"sort":    strconv.Itoa(g.Sort),
			},
		}
		if g.URL != "" {
			it.File = &formdraft.FileRef{URL: g.URL}
		}
		items[i] = it
	}
	return formdraft.ItemsValue(items)
}

// ID formats a backend id; zero means not persisted.
func ID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// Statuses builds a fixed status filter.
func Statuses(sts ...models.Status) []formdraft.Choice {
	out := make([]formdraft.Choice, len(sts))
	for i, s := range sts {
		out[i] = formdraft.Choice{Value: string(s), Label: s.Label()}
	}
	return out
}
