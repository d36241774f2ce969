// Package cache stores built element graphs and rendered artifacts.
//
// A [Cache] is a plain byte store with per-entry TTLs. Backends:
//   - [NullCache]: caching disabled
//   - [MemoryCache]: process-local, used by the HTTP server and tests
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared across server instances
//
// Keys come from a [Keyer] so that callers never build key strings by hand.
// Graph keys hash the raw input together with the parse options; artifact
// keys hash the graph key together with the output format.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Default entry lifetimes.
const (
	GraphTTL    = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// GraphKeyOpts are the parse options that change the built graph.
type GraphKeyOpts struct {
	Format string `json:"format"`
	Name   string `json:"name"`
	Split  bool   `json:"split"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Analysis bool    `json:"analysis,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	GraphKey(input []byte, opts GraphKeyOpts) string
	ArtifactKey(graphKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "graph:<sha256>" and
// "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey hashes the input bytes with opts.
func (DefaultKeyer) GraphKey(input []byte, opts GraphKeyOpts) string {
	return hashKey("graph", Hash(input), opts)
}

// ArtifactKey hashes a graph key with opts.
func (DefaultKeyer) ArtifactKey(graphKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphKey, opts)
}
