// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	Timestamp time.Time
	Category  string
	EventType string
	Actor     string
	Entity    string
	EntityID  string
	IP        string
	Success   bool
	Reason    string
	Details   map[string]string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	Entity    string
	StartDate string
	EndDate   string

	Categories []categoryOption
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

var (
	authEvents = []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLoginRoleRefused,
		audit.EventLoginRateLimited,
		audit.EventLogout,
		audit.EventSessionRevoked,
	}
	adminEvents = []string{
		audit.EventEntityCreated,
		audit.EventEntityUpdated,
		audit.EventEntityRemoved,
		audit.EventEntityApproved,
		audit.EventEntityRejected,
		audit.EventTierChanged,
		audit.EventItemRemoved,
		audit.EventActionRefused,
		audit.EventVendorConverted,
		audit.EventLookupsReloaded,
	}
)

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}
