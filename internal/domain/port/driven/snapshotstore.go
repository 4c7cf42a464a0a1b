package driven

import (
	"context"
	"time"
)

// Snapshot is the last successfully fetched list for one owner/resource
// pair, stored as the raw JSON payload plus its item count. It is the
// fallback shown when a fetch fails, and the source of the dashboard
// summary tile counts.
type Snapshot struct {
	Owner     string
	Resource  string
	Payload   []byte
	ItemCount int
	UpdatedAt time.Time
}

// SnapshotStore persists last-known resource lists. Owner is the username
// or group name the listing is scoped to; Resource names the list kind
// ("accounts", "api-keys", ...).
type SnapshotStore interface {
	// Save stores or replaces the snapshot for owner/resource.
	Save(ctx context.Context, owner, resource string, payload []byte, count int) error

	// Load returns the snapshot for owner/resource, or nil when none exists.
	Load(ctx context.Context, owner, resource string) (*Snapshot, error)

	// Count returns the stored item count for owner/resource, 0 when absent.
	Count(ctx context.Context, owner, resource string) (int, error)

	// DeleteOwner drops all snapshots for an owner. Used when a session ends
	// so stale secrets do not outlive the login that fetched them.
	DeleteOwner(ctx context.Context, owner string) error
}
