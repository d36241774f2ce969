// Package store persists built element graphs so that the HTTP API can
// return them by id.
//
// Two backends implement [Store]:
//   - [MemoryStore]: process-local, for development and tests
//   - [MongoStore]: MongoDB, for multi-instance deployments
//
// Graphs are stored as [Document] values holding the bg text of the graph
// plus a few denormalized fields for listing.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/rnagraph/pkg/bulge"
)

// Document is a stored element graph.
type Document struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	Length     int       `json:"length" bson:"length"`
	DotBracket string    `json:"dotbracket" bson:"dotbracket"`
	Elements   string    `json:"elements" bson:"elements"`
	Text       string    `json:"bg" bson:"bg"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// NewDocument snapshots g under a fresh random id.
func NewDocument(g *bulge.Graph) *Document {
	return &Document{
		ID:         uuid.NewString(),
		Name:       g.Name(),
		Length:     g.Len(),
		DotBracket: g.DotBracket(),
		Elements:   g.ElementString(),
		Text:       g.Text(),
		CreatedAt:  time.Now().UTC(),
	}
}

// Graph rebuilds the stored element graph.
func (d *Document) Graph() (*bulge.Graph, error) {
	return bulge.FromText(d.Text)
}

// Store is the interface for graph storage backends.
type Store interface {
	// Put inserts or replaces a document.
	Put(ctx context.Context, doc *Document) error

	// Get returns the document with id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns up to limit documents, newest first. A limit of zero
	// or less selects DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Document, error)

	// Delete removes a document, or returns a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	Close(ctx context.Context) error
}

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

func listLimit(n int) int {
	if n <= 0 {
		return DefaultListLimit
	}
	return n
}
