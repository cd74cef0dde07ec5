// Package ctxkeys holds the context keys shared across packages.
package ctxkeys

// Key is the type for all context keys in the application.
type Key string

const (
	// KeyRequestID carries the per-call request id assigned by the server interceptors.
	KeyRequestID Key = "request_id"

	// KeyClaims carries the verified token claims.
	KeyClaims Key = "claims"

	// KeyCampaignID carries the campaign id through detached dispatch tasks.
	KeyCampaignID Key = "campaign_id"
)
