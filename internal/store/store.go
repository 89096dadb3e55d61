// Package store defines the generic document-store client the rest of the
// service is built on.  Collections hold schemaless JSON documents addressed
// by string id; the only query primitive is field equality.  The store
// offers no multi-document transaction; the one concession to concurrent
// writers is UpdateIf, a version-conditional partial update that lets the
// repositories implement compare-and-set on a single document.
package store

import (
	"context"
	"errors"
)

// Collection names used across the service.
const (
	Seats          = "seats"
	ScreeningRooms = "screeningRoom"
	Showtimes      = "showtime"
	Movies         = "movies"
	Tickets        = "ticket"
	Foods          = "food"
	Users          = "users"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("document not found")

// ErrVersionMismatch is returned by UpdateIf when the document's "version"
// field no longer matches the expected value, meaning another writer got
// there first.
var ErrVersionMismatch = errors.New("document version mismatch")

// Store is the document-store client surface.  Get and QueryByField decode
// into the caller's value (a struct pointer, or a pointer to a slice for
// queries).  Update merges the given fields into the existing document;
// UpdateIf does the same but only when the document's "version" field equals
// expectedVersion; callers that want the guard to keep holding must include
// a bumped "version" in fields.
type Store interface {
	Get(ctx context.Context, collection, id string, out any) error
	Set(ctx context.Context, collection, id string, doc any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	UpdateIf(ctx context.Context, collection, id string, fields map[string]any, expectedVersion uint64) error
	Delete(ctx context.Context, collection, id string) error
	QueryByField(ctx context.Context, collection, field string, value any, out any) error
	All(ctx context.Context, collection string, out any) error
}
