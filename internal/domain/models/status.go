// internal/domain/models/status.go
package models

import "strings"

// Status is the lifecycle status the backend reports for an entity.
type Status string

const (
	StatusUnknown             Status = ""
	StatusActive              Status = "ACTIVE"
	StatusInactive            Status = "INACTIVE"
	StatusDeleted             Status = "DELETED"
	StatusPendingApproval     Status = "PENDING_APPROVAL"
	StatusPendingPayment      Status = "PENDING_PAYMENT"
	StatusPendingVerification Status = "PENDING_VERIFICATION"
	StatusApproved            Status = "APPROVED"
	StatusRejected            Status = "REJECTED"
	StatusDraft               Status = "DRAFT"
	StatusPublished           Status = "PUBLISHED"
	StatusExpired             Status = "EXPIRED"
)

var statusLabels = map[Status]string{
	StatusActive:              "Active",
	StatusInactive:            "Inactive",
	StatusDeleted:             "Deleted",
	StatusPendingApproval:     "Pending approval",
	StatusPendingPayment:      "Pending payment",
	StatusPendingVerification: "Pending verification",
	StatusApproved:            "Approved",
	StatusRejected:            "Rejected",
	StatusDraft:               "Draft",
	StatusPublished:           "Published",
	StatusExpired:             "Expired",
}

// ParseStatus maps a backend status string onto the known Status set.
// Unlisted PENDING_* values are kept as they are so they stay pending.
func ParseStatus(s string) Status {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := statusLabels[st]; ok {
		return st
	}
	if st.IsPending() && len(st) > len("PENDING_") {
		return st
	}
	return StatusUnknown
}

// IsPending reports whether the status is one of the PENDING_* values.
func (s Status) IsPending() bool {
	return strings.HasPrefix(string(s), "PENDING_")
}

// Label returns a human-readable name for the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	if s.IsPending() {
		return "Pending " + strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(string(s), "PENDING_"), "_", " "))
	}
	return "Unknown"
}

func (s Status) String() string { return string(s) }
