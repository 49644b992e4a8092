// Package report writes scan results for people and tools.
//
// SimpleWriter prints plain text for the terminal, MarkdownWriter
// produces a shareable document and JSONWriter emits structured output.
// All of them write model.Record values for single reads and
// model.Summary values for batch decodes.
//
// StreamPresenter adapts a Writer to the intake's presenter interface
// for line-oriented sessions without a terminal UI.
package report
