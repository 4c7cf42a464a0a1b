package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SnapshotStore = (*SnapshotRepo)(nil)

// SnapshotRepo is the SQLite implementation of the SnapshotStore port.
// It keeps the last successfully fetched list per owner/resource pair so
// a failed refresh can fall back to known data instead of an empty page.
type SnapshotRepo struct {
	db *DB
}

// NewSnapshotRepo creates a SnapshotRepo backed by the given DB.
func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save stores or replaces the snapshot for owner/resource.
func (r *SnapshotRepo) Save(ctx context.Context, owner, resource string, payload []byte, count int) error {
	const query = `
		INSERT INTO snapshots (owner, resource, payload, item_count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (owner, resource) DO UPDATE SET
			payload = excluded.payload,
			item_count = excluded.item_count,
			updated_at = excluded.updated_at`

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.Writer.ExecContext(ctx, query, owner, resource, payload, count, now); err != nil {
		return fmt.Errorf("save snapshot %s/%s: %w", owner, resource, err)
	}
	return nil
}

// Load returns the snapshot for owner/resource, or nil when none exists.
func (r *SnapshotRepo) Load(ctx context.Context, owner, resource string) (*driven.Snapshot, error) {
	const query = `SELECT payload, item_count, updated_at FROM snapshots WHERE owner = ? AND resource = ?`

	snap := driven.Snapshot{Owner: owner, Resource: resource}
	var updatedAt string

	err := r.db.Reader.QueryRowContext(ctx, query, owner, resource).
		Scan(&snap.Payload, &snap.ItemCount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s/%s: %w", owner, resource, err)
	}

	snap.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &snap, nil
}

// Count returns the stored item count for owner/resource, 0 when absent.
func (r *SnapshotRepo) Count(ctx context.Context, owner, resource string) (int, error) {
	const query = `SELECT item_count FROM snapshots WHERE owner = ? AND resource = ?`

	var count int
	err := r.db.Reader.QueryRowContext(ctx, query, owner, resource).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count snapshot %s/%s: %w", owner, resource, err)
	}

	return count, nil
}

// DeleteOwner drops all snapshots for an owner.
func (r *SnapshotRepo) DeleteOwner(ctx context.Context, owner string) error {
	const query = `DELETE FROM snapshots WHERE owner = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, owner); err != nil {
		return fmt.Errorf("delete snapshots for %s: %w", owner, err)
	}
	return nil
}

// parseTime tries the datetime formats SQLite may hand back.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
