// Package pipeline converts scientific-manuscript Markdown to LaTeX through
// an ordered sequence of text transformation stages.
//
// The engine is deliberately regex/string-oriented rather than AST-based: the
// supported Markdown dialect is narrow and the output must match an existing
// LaTeX template ecosystem token for token. Each stage takes and returns the
// same (content, protection) pair; the stage order is fixed and load-bearing.
//
// Content that must survive later passes untouched (code environments, inline
// code spans, raw tables, finished LaTeX tables) is shielded behind reversible
// placeholder tokens held in a per-conversion Protection value. Nothing is
// shared between conversions, so sections of one manuscript can be converted
// independently and in parallel.
package pipeline
