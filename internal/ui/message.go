package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/galx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLogUpdated MsgKind = iota
	MsgProgressUpdate
	MsgRunComplete
)

// runComplete is the payload of [MsgRunComplete]
type runComplete struct {
	kind   tasks.RunKind
	result *tasks.RunResult
	err    error
}

// logUpdatedMsg is the constructor for [MsgLogUpdated]
func logUpdatedMsg() Msg {
	return Msg{kind: MsgLogUpdated}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// runCompleteMsg is the constructor for [MsgRunComplete]
func runCompleteMsg(kind tasks.RunKind, result *tasks.RunResult, err error) Msg {
	return Msg{kind: MsgRunComplete, data: runComplete{kind: kind, result: result, err: err}}
}
