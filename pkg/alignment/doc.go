// Package alignment turns a two-way diff into a chain of resolvable blocks.
//
// A Model is built from an edit script (see pkg/textdiff). Each entry becomes
// a Block: Equal text shared by both sides, a OneSided edit present on only
// one side, or a Conflict pairing a deletion with the insertion that
// immediately follows it. Every block exposes three views (left, right and
// result) and concatenating one view over the whole chain yields that view's
// document.
//
// Blocks live in an arena and are addressed by BlockID; the chain is kept
// through prev/next indices so splicing never leaves dangling references.
// Resolution operations do not notify anybody: they return a Change describing
// which offset ranges were replaced by which new blocks, and the caller
// applies the equivalent replacement to whatever text buffers it keeps.
package alignment
