// Package actionpolicy decides which row and detail actions are offered for an
// entity. Action menus, detail-page buttons and the mutation handlers all ask
// this package, so a button that is not shown is also refused when posted.
//
// Rules:
//   - view is always offered
//   - a DELETED entity offers nothing but view
//   - a PENDING_* entity offers approve and reject
//   - an ACTIVE member offers change_tier
//   - admin accounts additionally pass the actor-vs-target gate (authz.CanAct)
package actionpolicy

import (
	"github.com/dalemusser/clubdesk/internal/app/system/authz"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Action is a row or detail action.
type Action string

const (
	View       Action = "view"
	Edit       Action = "edit"
	Remove     Action = "remove"
	Approve    Action = "approve"
	Reject     Action = "reject"
	ChangeTier Action = "change_tier"
)

// ParseAction maps a path segment onto an Action. Unknown values return "".
func ParseAction(s string) Action {
	switch Action(s) {
	case View, Edit, Remove, Approve, Reject, ChangeTier:
		return Action(s)
	case "tier":
		return ChangeTier
	}
	return ""
}

// Label is the menu text for the action.
func (a Action) Label() string {
	switch a {
	case View:
		return "View"
	case Edit:
		return "Edit"
	case Remove:
		return "Remove"
	case Approve:
		return "Approve"
	case Reject:
		return "Reject"
	case ChangeTier:
		return "Change tier"
	}
	return string(a)
}

// Destructive reports whether the action asks for confirmation first.
func (a Action) Destructive() bool {
	return a == Remove || a == Reject
}

// Set is an ordered list of permitted actions.
type Set []Action

// Has reports whether a is in the set.
func (s Set) Has(a Action) bool {
	for _, x := range s {
		if x == a {
			return true
		}
	}
	return false
}

// Subject is the part of an entity the policy looks at.
type Subject struct {
	Status models.Status
	Role   models.Role // admins only
}

// For dispatches to the per-kind policy.
func For(kind models.Kind, actor models.Role, sub Subject) Set {
	switch kind {
	case models.KindAdmin:
		return Admin(actor, sub)
	case models.KindMember:
		return Member(sub)
	case models.KindClub:
		return Club(sub)
	case models.KindEvent:
		return Event(sub)
	case models.KindNews:
		return News(sub)
	case models.KindListing:
		return Listing(sub)
	case models.KindPayment:
		return Payment(sub)
	case models.KindVendor:
		return Vendor(sub)
	case models.KindAd:
		return Ad(sub)
	}
	return Set{View}
}

// Admin gates every mutation on the actor-vs-target rule.
func Admin(actor models.Role, sub Subject) Set {
	if !authz.CanAct(actor, sub.Role) {
		return Set{View}
	}
	return standard(sub.Status)
}

// Member adds change_tier for active members.
func Member(sub Subject) Set {
	s := standard(sub.Status)
	if sub.Status == models.StatusActive {
		s = append(s, ChangeTier)
	}
	return s
}

func Club(sub Subject) Set    { return standard(sub.Status) }
func Event(sub Subject) Set   { return standard(sub.Status) }
func News(sub Subject) Set    { return standard(sub.Status) }
func Listing(sub Subject) Set { return standard(sub.Status) }
func Vendor(sub Subject) Set  { return standard(sub.Status) }
func Ad(sub Subject) Set      { return standard(sub.Status) }

// Payment records are never edited once paid; they are approved or rejected.
func Payment(sub Subject) Set {
	switch {
	case sub.Status == models.StatusDeleted:
		return Set{View}
	case sub.Status.IsPending():
		return Set{View, Approve, Reject, Remove}
	case sub.Status == models.StatusApproved:
		return Set{View}
	}
	return Set{View, Edit, Remove}
}

func standard(st models.Status) Set {
	if st == models.StatusDeleted {
		return Set{View}
	}
	s := Set{View, Edit, Remove}
	if st.IsPending() {
		s = append(s, Approve, Reject)
	}
	return s
}
