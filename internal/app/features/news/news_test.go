package news

import (
	"strings"
	"testing"

	"github.com/dalemusser/clubdesk/internal/domain/models"
	"go.uber.org/zap"
)

func TestViewExtra_RendersSanitizedMarkdown(t *testing.T) {
	d := Descriptor(zap.NewNop())
	got := string(d.ViewExtra(models.News{ID: 1, Content: "## Ride out\n\n[map](javascript:alert(1)) <img src=x onerror=alert(1)>"}))
	if !strings.Contains(got, "<h2>Ride out</h2>") {
		t.Errorf("heading missing: %s", got)
	}
	if strings.Contains(got, "javascript:") || strings.Contains(got, "onerror") {
		t.Errorf("unsafe markup survived: %s", got)
	}
}

func TestSchemaFieldsBelongToTabs(t *testing.T) {
	for _, f := range schema.Fields {
		if !tabs.Has(f.Tab) {
			t.Errorf("field %s on unknown tab %q", f.Name, f.Tab)
		}
	}
}
