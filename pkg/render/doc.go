// Package render converts rendered element graphs between output formats.
//
// [ToPDF] and [ToPNG] turn SVG into other formats using the external
// rsvg-convert tool (from librsvg). The [nodelink] subpackage produces the
// SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(svg, 2.0)
//
// [nodelink]: github.com/matzehuels/rnagraph/pkg/render/nodelink
package render
