// Package render draws size-annotated graphs as node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a graph into Graphviz DOT source. Every vertex shows its
// name, relation class and output size; every edge shows the size it
// carries. Pending deltas are drawn as "old → new" and vertices with
// pending state are highlighted, so a plan can be reviewed before it is
// applied.
//
//	dot := render.ToDOT(g, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Styles
//
//   - input vertices: grey, inverted house
//   - Absorb vertices: white boxes
//   - Stack vertices: blue boxes
//   - Invariant vertices: ellipses
//   - pending vertices: orange outline
//
// [RenderSVG] and [RenderPNG] use an embedded Graphviz build and need no
// external tools.
package render
