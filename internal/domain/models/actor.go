// internal/domain/models/actor.go
package models

// Actor is the authenticated admin performing an action.
// It is populated at login and lives for the duration of the console session.
type Actor struct {
	UserID    string
	Role      Role
	AccountID string
	Name      string
	Email     string
}

// LookupOption is one entry of a backend lookup table (tiers, categories, ...).
type LookupOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
