package shared

import (
	"testing"

	"github.com/dalemusser/clubdesk/internal/domain/models"
)

func TestGalleryValue(t *testing.T) {
	v := GalleryValue([]models.GalleryImage{
		{ID: 4, URL: "https://cdn.test/a.png", Caption: "A", Sort: 1},
		{Caption: "draft"},
	})
	if len(v.Items) != 2 {
		t.Fatalf("items = %d", len(v.Items))
	}
	if v.Items[0].ID != "4" || v.Items[0].File == nil || v.Items[0].Values["sort"] != "1" {
		t.Errorf("first = %+v", v.Items[0])
	}
	if v.Items[1].ID != "" || v.Items[1].File != nil {
		t.Errorf("second = %+v", v.Items[1])
	}
}
