package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/setlist/internal/state"
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
	MsgSearchResolved MsgKind = iota
	MsgExportDone
)

type exportResult struct {
	path string
	err  error
}

// searchResolvedMsg is the constructor for [MsgSearchResolved]
func searchResolvedMsg(res state.Result) Msg {
	return Msg{kind: MsgSearchResolved, data: res}
}

// exportDoneMsg is the constructor for [MsgExportDone]
func exportDoneMsg(path string, err error) Msg {
	return Msg{kind: MsgExportDone, data: exportResult{path: path, err: err}}
}
