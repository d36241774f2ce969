// Package pkg provides the core libraries of rnagraph.
//
// # Overview
//
// rnagraph decomposes an RNA secondary structure into its structural
// elements (stems, hairpins, interior loops, multiloop segments and the 5'
// and 3' overhangs) and links them into an element graph that can be
// queried, serialized and drawn.
//
// # Architecture
//
// The typical data flow:
//
//	dot-bracket / bpseq / bg / json input
//	         ↓
//	    [io] package (decode records)
//	         ↓
//	    [pairs] and [sequence] packages (pair table, residues, chain breaks)
//	         ↓
//	    [bulge] package (element graph + queries + analysis)
//	         ↓
//	    [render/nodelink] package (DOT, SVG, PNG, PDF)
//
// # Quick Start
//
//	g, err := bulge.FromDotBracket("((..((...))..))", bulge.Options{Name: "demo"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(g.ElementString()) // ssiisshhhssiiss
//	fmt.Print(g.Text())            // bg text with define and connect lines
//
// # Main Packages
//
// [sequence] - Residues with chain breaks and residue identifiers.
//
// [pairs] - Pair tables, dot-bracket parsing and pseudoknot removal.
//
// [bulge] - The element graph: construction from pair tables, element
// queries, loop enumeration, cofold splitting, the minimum spanning forest
// and nucleotide distances.
//
// [nucgraph] - The nucleotide-level graph used for distance queries.
//
// [io] - bg, FASTA-style dot-bracket, bpseq and JSON readers and writers.
//
// [render/nodelink] - Graphviz drawings of element graphs.
//
// ## Infrastructure
//
// [pipeline] - Build and render with caching, used by the CLI and the API.
//
// [cache] - Cache backends (memory, file, Redis) and key derivation.
//
// [store] - Persistent graph documents (memory, MongoDB).
//
// [server] - The HTTP API.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Structured errors with codes.
//
// [sequence]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/sequence
// [pairs]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/pairs
// [bulge]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/bulge
// [nucgraph]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/nucgraph
// [io]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/rnagraph/pkg/errors
package pkg
