// Package scaffold derives the per-package render context from package
// config and evaluates the when predicates that gate each template.
//
// A RenderContext is built fresh for every render run. It is never
// mutated after Derive returns; derived flags such as HasWeb are methods
// recomputed on each call so they cannot drift from the fields they
// summarize.
package scaffold
