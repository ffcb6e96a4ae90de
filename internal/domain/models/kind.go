// internal/domain/models/kind.go
package models

// Kind names an entity type managed by the console.
type Kind string

const (
	KindAdmin   Kind = "admins"
	KindMember  Kind = "members"
	KindClub    Kind = "clubs"
	KindEvent   Kind = "events"
	KindNews    Kind = "news"
	KindListing Kind = "listings"
	KindPayment Kind = "payments"
	KindVendor  Kind = "vendors"
	KindAd      Kind = "ads"
)
