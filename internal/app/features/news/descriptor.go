// internal/app/features/news/descriptor.go
package news

import (
	"html/template"
	"strconv"

	"github.com/dalemusser/clubdesk/internal/app/features/shared"
	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"go.uber.org/zap"
)

var tabs = shared.Tabs("article", "Article", "gallery", "Gallery")

var schema = formdraft.Schema{Fields: []formdraft.Field{
	{Name: "title", Label: "Title", Kind: formdraft.Text, Required: true, Tab: "article"},
	{Name: "summary", Label: "Summary", Kind: formdraft.Text, Tab: "article"},
	{Name: "content", Label: "Content", Kind: formdraft.LongText, Required: true, Tab: "article",
		Help: "Markdown."},
	{Name: "published_at", Label: "Publish date", Kind: formdraft.Date, Tab: "article"},
	{Name: "is_public", Label: "Public", Kind: formdraft.Bool, Tab: "article"},
	{Name: "image", Label: "Cover image", Kind: formdraft.File, Tab: "article"},
	shared.GalleryField("gallery", "Gallery", "gallery"),
}}

const previewControls = template.HTML(`<div class="news-preview">
  <button type="button" class="btn btn-secondary" hx-post="/news/preview" hx-include="[name=content]" hx-target="#news-preview" hx-swap="innerHTML">Preview</button>
  <article id="news-preview" class="rendered"></article>
</div>`)

// Descriptor describes news articles. Content is markdown, rendered and
// sanitized on the detail page.
func Descriptor(log *zap.Logger) crud.Descriptor[models.News] {
	return crud.Descriptor[models.News]{
		Kind:     models.KindNews,
		Title:    "News",
		Singular: "Article",
		Resource: "/news",

		ID:   func(n models.News) string { return strconv.FormatInt(n.ID, 10) },
		Name: func(n models.News) string { return n.Title },
		Subject: func(n models.News) actionpolicy.Subject {
			return actionpolicy.Subject{Status: models.ParseStatus(n.Status)}
		},

		Columns: []crud.Column[models.News]{
			{Label: "Title", Value: func(n models.News) string { return n.Title }},
			{Label: "Published", Value: func(n models.News) string { return formdraft.InputDate(n.PublishedAt) }},
			{Label: "Status", Value: func(n models.News) string { return n.Status }, Status: true},
		},
		Filters: []crud.Filter{
			{Name: "status", Label: "Status", Choices: shared.Statuses(
				models.StatusDraft, models.StatusPendingApproval, models.StatusPublished, models.StatusDeleted)},
		},

		Schema: schema,
		Tabs:   tabs,
		ToDraft: func(n models.News) formdraft.Draft {
			return formdraft.Draft{
				"title":        formdraft.TextValue(n.Title),
				"summary":      formdraft.TextValue(n.Summary),
				"content":      formdraft.TextValue(n.Content),
				"published_at": formdraft.TextValue(n.PublishedAt),
				"is_public":    formdraft.BoolValue(n.IsPublic),
				"image":        formdraft.FileValue(n.Image),
				"gallery":      shared.GalleryValue(n.Gallery),
			}
		},

		FormExtra: previewControls,
		ViewExtra: func(n models.News) template.HTML {
			out, err := htmlsanitize.Markdown(n.Content)
			if err != nil {
				log.Warn("render news content", zap.Int64("id", n.ID), zap.Error(err))
				return htmlsanitize.PrepareForDisplay(n.Content)
			}
			return out
		},
	}
}
