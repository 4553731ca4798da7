// Package primitives holds the serialisable configuration types shared by the
// CLI, the server and the file loaders.
//
// GrammarConfig is the YAML/JSON form of a grammar; it converts to and from
// the engine's *lsystemx.Grammar. RenderConfig carries the canvas, forest and
// turtle settings, with defaults for every zero field.
//
// Core invariants:
//   - A valid GrammarConfig has a non-empty axiom and single-byte triggers.
//   - A valid RenderConfig has positive dimensions, at least one tree and
//     0 <= Depth <= MaxDepth.
package primitives
