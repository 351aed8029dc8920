package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/tasks"
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
	MsgProgressUpdate MsgKind = iota
	MsgSearchComplete
)

type searchResult struct {
	concerts []models.Concert
	err      error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// searchCompleteMsg is the constructor for [MsgSearchComplete]
func searchCompleteMsg(concerts []models.Concert, err error) Msg {
	return Msg{kind: MsgSearchComplete, data: searchResult{concerts, err}}
}
