package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
)

func newDoc(t *testing.T, db string) *Document {
	t.Helper()
	g, err := bulge.FromDotBracket(db, bulge.Options{Name: "doc"})
	if err != nil {
		t.Fatal(err)
	}
	return NewDocument(g)
}

func TestNewDocument(t *testing.T) {
	d := newDoc(t, "..((..))..")
	if d.ID == "" || d.Name != "doc" || d.Length != 10 {
		t.Errorf("document = %+v", d)
	}
	if d.DotBracket != "..((..)).." || d.Elements != "ffsshhsstt" {
		t.Errorf("denormalized fields = %q %q", d.DotBracket, d.Elements)
	}
	g, err := d.Graph()
	if err != nil {
		t.Fatal(err)
	}
	if g.DotBracket() != d.DotBracket {
		t.Errorf("Graph() = %q", g.DotBracket())
	}
	if other := newDoc(t, "(..)"); other.ID == d.ID {
		t.Error("documents share an id")
	}
}

// exercise checks the behaviour every backend must share.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i, db := range []string{"(..)", "((..))", "(((..)))"} {
		d := newDoc(t, db)
		d.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Put(ctx, d); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, d.ID)
	}

	got, err := s.Get(ctx, ids[1])
	if err != nil {
		t.Fatal(err)
	}
	if got.DotBracket != "((..))" {
		t.Errorf("Get() = %+v", got)
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != ids[2] || list[1].ID != ids[1] {
		t.Errorf("List(2) returned %d docs in wrong order", len(list))
	}

	got.Name = "renamed"
	if err := s.Put(ctx, got); err != nil {
		t.Fatal(err)
	}
	if again, _ := s.Get(ctx, ids[1]); again.Name != "renamed" {
		t.Errorf("Put did not replace, name = %q", again.Name)
	}

	if err := s.Delete(ctx, ids[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, ids[0]); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(deleted) error = %v", err)
	}
	if err := s.Delete(ctx, ids[0]); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete(deleted) error = %v", err)
	}
	if err := s.Put(ctx, &Document{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Put(no id) error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close(context.Background())
	exercise(t, s)

	d, _ := s.Get(context.Background(), "missing")
	if d != nil {
		t.Error("Get(missing) returned a document")
	}
}

func TestMemoryStoreDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := range DefaultListLimit + 5 {
		if err := s.Put(ctx, &Document{ID: fmt.Sprintf("g%03d", i)}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != DefaultListLimit {
		t.Errorf("List(0) = %d docs, want %d", len(list), DefaultListLimit)
	}
	if list[0].ID != "g000" {
		t.Errorf("ties should sort by id, first = %s", list[0].ID)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	d := &Document{ID: "x", Name: "before"}
	_ = s.Put(ctx, d)
	d.Name = "after"
	got, _ := s.Get(ctx, "x")
	if got.Name != "before" {
		t.Error("store shares memory with caller")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("RNAGRAPH_TEST_MONGO")
	if uri == "" {
		t.Skip("RNAGRAPH_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "rnagraph_test",
		Collection: fmt.Sprintf("graphs_%d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close(ctx)
	}()
	exercise(t, s)
}

func TestMongoStoreRequiresDatabase(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{URI: "mongodb://localhost:27017"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewMongoStore() error = %v", err)
	}
}
