// Package io reads and writes size-annotated graphs.
//
// # TOML Format
//
// Graphs are described as a list of vertex tables plus an optional list of
// designated outputs:
//
//	outputs = ["head"]
//
//	[[vertex]]
//	name = "in"
//	kind = "input"
//	size = 3
//
//	[[vertex]]
//	name = "dense"
//	kind = "absorb"
//	size = 4
//	inputs = ["in"]
//	utility = [10, 1, 10, 1]
//
//	[[vertex]]
//	name = "relu"
//	kind = "invariant"
//	inputs = ["dense"]
//
//	[[vertex]]
//	name = "head"
//	kind = "absorb"
//	size = 2
//	inputs = ["relu"]
//	nin_factor = 2
//	log = true
//
// # Vertex Fields
//
// Required:
//   - name: unique identifier
//   - kind: "input", "absorb", "stack" or "invariant"
//   - size: output size of input and absorb vertices (optional for stack and
//     invariant vertices, whose size follows from their inputs)
//   - inputs: names of the upstream vertices, one per input edge; a name
//     may repeat. Input vertices have none, all others at least one.
//
// Optional:
//   - nin_factor, nout_factor: divisibility factors (default 1)
//   - utility: one score per output neuron, used for neuron selection
//   - log: log committed size changes of this vertex
//
// Vertices may be listed in any order. Without an outputs list, every
// vertex nobody consumes is an output.
//
// # Import and Export
//
// [ReadTOML] and [ImportTOML] build a [Model] and validate names, kinds,
// sizes, references and acyclicity. [WriteTOML] and [ExportTOML] write the
// committed state of a graph back in the same format, so a resized graph
// can be saved and reloaded.
//
// [WritePlanJSON] and [ExportPlanJSON] write the pending state of a graph
// (deltas and selections) as JSON for external tools.
package io
