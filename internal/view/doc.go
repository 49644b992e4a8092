// Package view builds ViewState values: the scanning view with its status
// indicator, and the result view rendered from a public record.
//
// It holds no state of its own. The intake loop owns the current ViewState
// and hands copies to a presenter.
package view
