// Package nodelink draws element graphs as node-link diagrams with
// Graphviz.
//
// Stems are boxes, hairpins and multiloop segments ellipses, interior loops
// diamonds and overhangs arrow shapes; zero-length elements have a dashed
// outline. With an [bulge.Analysis] in [Options], edges to loops outside
// the minimum spanning forest are dashed as well.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
// PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
