// Package bulge builds and queries the element graph of a nucleic-acid
// secondary structure.
//
// # Overview
//
// A secondary structure (dot-bracket, pair list or pair table) is
// partitioned into elements:
//
//   - Stems (s): maximal runs of stacked base pairs, define [a, b, c, d]
//   - Hairpins (h): the unpaired run closed by one stem
//   - Interior loops (i): unpaired runs between two stacked stems; one
//     strand may be empty
//   - Multiloop segments (m): one unpaired leg between two other stems,
//     possibly of zero length
//   - Overhangs (f, t): unpaired runs before the first and after the last
//     paired position of a chain
//
// Edges join every loop to the stems it touches, so every edge has a stem
// on one side.
//
// # Construction
//
// [FromDotBracket] and friends run a fixed pipeline: helices and unpaired
// runs are extracted from the sorted pair tuples, linked to each other,
// zero-length connections between directly adjacent stems are inserted, the
// two halves of every interior loop are merged, elements are classified and
// numbered, and finally declared backbone breaks are applied:
//
//	g, err := bulge.FromDotBracket("..((..))..", bulge.Options{Name: "demo"})
//	g.ElementString() // "ffsshhsstt"
//
// Construction returns an error with code INVALID_STRUCTURE for unusable
// input and GRAPH_INTEGRITY when an internal invariant fails.
//
// # Queries
//
// A [Graph] is immutable. Adjacency, sides, dimensions, position lookup
// and loop detection are methods on it. Values that are costly to derive
// (spanning forest, build order, nucleotide distances) live in an
// [Analysis] created with [Analyze].
//
// # Text format
//
// [Graph.Text] and [FromText] round-trip a graph through a line-based format
// with name, length, seq, seq_ids, define, connect and info lines.
package bulge
