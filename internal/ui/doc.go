// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// A single screen shows the run parameters, a status line and a scrolling log of progress lines.
// Keys start a one-shot run (o), start or resume the auto run (a), stop it (s), reset progress (r) and quit (q).
//
// Runs execute inside tea.Cmd goroutines and never touch the [Model]. The model learns about new work through
// messages only: one command waits on the progress log's notify channel and pulls unseen entries, another
// drains the structured progress channel, and a completion message arrives when the scheduler call returns.
package ui
