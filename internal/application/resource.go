// Package application contains the client-synchronization use cases: remote
// resource fetching with snapshot fallback, and mutation orchestration.
package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// ListFunc fetches one resource list from the backend, scoped to an owner
// (a username or group name).
type ListFunc[T any] func(ctx context.Context, token, owner string) ([]T, error)

// Resource is a remote list kept in sync with the backend. One instance
// exists per resource kind; the last successful fetch is persisted as a
// snapshot so a failed refresh can fall back to known data.
type Resource[T any] struct {
	name  string
	snaps driven.SnapshotStore
	list  ListFunc[T]
}

// NewResource creates a Resource named name, caching into snaps.
func NewResource[T any](name string, snaps driven.SnapshotStore, list ListFunc[T]) *Resource[T] {
	return &Resource[T]{name: name, snaps: snaps, list: list}
}

// Result is the outcome of a refresh. Stale is true when the backend call
// failed and Items carry the last-known snapshot instead of fresh data.
type Result[T any] struct {
	Items []T
	Stale bool
}

// Refresh fetches the list once and replaces the stored snapshot.
//   - A 404 from the backend is a valid empty result, not an error.
//   - A 401 propagates ErrUnauthorized; the caller tears down the session.
//   - Any other failure returns the last-known snapshot (Stale) together
//     with the error, and leaves the snapshot untouched.
//
// There is no retry; each refresh is a single attempt.
func (r *Resource[T]) Refresh(ctx context.Context, token, owner string) (Result[T], error) {
	items, err := r.list(ctx, token, owner)
	switch {
	case err == nil:
	case errors.Is(err, driven.ErrNotFound):
		items = []T{}
	case errors.Is(err, driven.ErrUnauthorized):
		return Result[T]{}, err
	default:
		return Result[T]{Items: r.LastKnown(ctx, owner), Stale: true}, err
	}

	r.store(ctx, owner, items)
	return Result[T]{Items: items}, nil
}

// LastKnown returns the snapshot list for owner, or an empty list when no
// snapshot exists or it cannot be decoded.
func (r *Resource[T]) LastKnown(ctx context.Context, owner string) []T {
	snap, err := r.snaps.Load(ctx, owner, r.name)
	if err != nil {
		slog.Error("snapshot load failed", "resource", r.name, "owner", owner, "error", err)
		return []T{}
	}
	if snap == nil {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(snap.Payload, &items); err != nil {
		slog.Error("snapshot decode failed", "resource", r.name, "owner", owner, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Count returns the stored item count for owner, used by summary tiles.
func (r *Resource[T]) Count(ctx context.Context, owner string) int {
	count, err := r.snaps.Count(ctx, owner, r.name)
	if err != nil {
		slog.Error("snapshot count failed", "resource", r.name, "owner", owner, "error", err)
		return 0
	}
	return count
}

// store replaces the snapshot for owner. A cache write failure is logged
// but does not fail the refresh; the fetched data is still returned.
func (r *Resource[T]) store(ctx context.Context, owner string, items []T) {
	payload, err := json.Marshal(items)
	if err != nil {
		slog.Error("snapshot encode failed", "resource", r.name, "owner", owner, "error", err)
		return
	}
	if err := r.snaps.Save(ctx, owner, r.name, payload, len(items)); err != nil {
		slog.Error("snapshot save failed", "resource", r.name, "owner", owner, "error", err)
	}
}
