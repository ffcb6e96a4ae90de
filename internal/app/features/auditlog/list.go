// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/clubdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

const pageSize = 50

const dateLayout = "2006-01-02"

// ServeList handles GET /audit - the recorded events, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	entity := strings.TrimSpace(q.Get("entity"))
	startDate := strings.TrimSpace(q.Get("start_date"))
	endDate := strings.TrimSpace(q.Get("end_date"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Entity:    entity,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if t, err := time.Parse(dateLayout, startDate); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.Parse(dateLayout, endDate); err == nil {
		end := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &end
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events", err, "Could not load the audit log.", "/")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events", err, "Could not load the audit log.", "/")
		return
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		actor := e.ActorID
		if e.ActorRole != "" {
			actor += " (" + e.ActorRole + ")"
		}
		items = append(items, listItem{
			Timestamp: e.Timestamp,
			Category:  e.Category,
			EventType: e.EventType,
			Actor:     actor,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   e.Details,
		})
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	templates.Render(w, r, "audit_list", listData{
		BaseVM:     viewdata.NewBaseVM(w, r, "Audit log", "/"),
		Items:      items,
		Category:   category,
		EventType:  eventType,
		Entity:     entity,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(category),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevURL:    pageURL(q, page-1),
		NextURL:    pageURL(q, page+1),
	})
}

// pageURL keeps the current filters and swaps the page number.
func pageURL(q url.Values, page int) string {
	v := url.Values{}
	for k, vals := range q {
		v[k] = vals
	}
	v.Set("page", strconv.Itoa(page))
	return "/audit?" + v.Encode()
}
