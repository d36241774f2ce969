// Package io reads and writes element graphs and the structure formats they
// are built from.
//
// # Formats
//
//   - bg: the line-based element graph format of [bulge.Graph.Text]
//   - fasta: FASTA-style dot-bracket records, one or more per file
//   - bpseq: one residue per line with position, residue and partner
//   - json: the element graph as "nodes" and "edges" arrays
//
// # JSON Format
//
//	{
//	  "name": "hairpin",
//	  "length": 10,
//	  "sequence": "GGAAACCCUU",
//	  "structure": "..((..))..",
//	  "nodes": [
//	    {"id": "s0", "kind": "stem", "define": [3, 4, 7, 8]},
//	    {"id": "h0", "kind": "hairpin", "define": [5, 6]},
//	    ...
//	  ],
//	  "edges": [
//	    {"from": "s0", "to": "f0"},
//	    {"from": "s0", "to": "h0"},
//	    ...
//	  ]
//	}
//
// Edges always join a stem to a loop. Zero-length elements have an empty
// define. Node meta (length, dimensions) is written for consumers and
// ignored on import.
//
// # Import
//
// [Load] detects the format from the file extension and returns every graph
// in the file:
//
//	gs, err := io.Load("trna.dbn", io.ReadOptions{})
//
// Dedicated readers ([ReadBG], [ReadFASTA], [ReadBPSeq], [ReadJSON]) expose
// the intermediate records. Every graph is validated on construction.
//
// # Export
//
// [Write] encodes one graph in any format. bpseq cannot represent backbone
// breaks and rejects graphs that have them.
package io
