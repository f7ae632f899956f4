// Package remotestore stores the synchronized artifact on a remote
// object store. Objects are addressed two ways: an opaque identifier
// (the object key) for updates, and a human-readable title carried in
// object metadata for lookup and creation. The identifier, not the
// filename, decides whether a sync run updates or creates, so renames
// of the remote target are handled transparently.
package remotestore

import (
	"context"
	"io"
	"time"
)

// StoredObject describes a previously uploaded artifact on the store.
type StoredObject struct {
	// ID is the opaque identifier (object key) used for updates.
	ID string

	// Title is the human-readable name the object is looked up by.
	Title string

	// LastModified is the store-side modification timestamp.
	LastModified time.Time
}

// Store is the remote object store the sync engine writes to.
type Store interface {
	// FindByTitle returns the stored object carrying the given title,
	// or an error wrapping ErrNotFound when no prior upload exists.
	FindByTitle(ctx context.Context, title string) (*StoredObject, error)

	// Create uploads body as a new object named filename, tagged with
	// title for later lookup.
	Create(ctx context.Context, title, filename string, body io.Reader) (*StoredObject, error)

	// Update overwrites the object identified by id in place,
	// preserving its identifier and title.
	Update(ctx context.Context, id string, body io.Reader) (*StoredObject, error)
}
