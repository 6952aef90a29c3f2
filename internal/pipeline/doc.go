// Package pipeline orchestrates the conversion of one wiki page into a
// Markdown document.
//
// Each transformation stage is a Step: infobox extraction, template
// policy, category stripping, body formatting, and document rendering.
// Steps execute in sequence over a shared PageResult, with each step
// consuming the body text its predecessor left behind.
//
// Design decision: we use a step pipeline instead of direct function
// calls because:
// 1. It allows easy addition/removal of stages without modifying core logic
// 2. It provides consistent logging across stages
// 3. It supports cancellation via context for very large dumps
//
// Every step is a pure in-memory transformation; the pipeline performs no
// I/O and has no suspension points, so a page's conversion is atomic: it
// produces a complete document or none.
package pipeline
