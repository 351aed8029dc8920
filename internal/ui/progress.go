package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/desertthunder/gigx/internal/tasks"
)

const defaultBarWidth = 40

// ProgressBar draws sweep progress on a single terminal line.
//
// It is the non-interactive counterpart of the search view in [Model].
type ProgressBar struct {
	bar progress.Model
	w   io.Writer
}

// NewProgressBar creates a bar that writes to w.
func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth)),
		w:   w,
	}
}

// Render returns the bar and message for one update.
func (p *ProgressBar) Render(update tasks.ProgressUpdate) string {
	return fmt.Sprintf("%s %s", p.bar.ViewAs(update.Percent()), update.Message)
}

// Draw overwrites the current line with the rendered update.
func (p *ProgressBar) Draw(update tasks.ProgressUpdate) {
	fmt.Fprintf(p.w, "\r\033[K%s", p.Render(update))
	if update.Phase == tasks.Complete {
		fmt.Fprintln(p.w)
	}
}

// Consume draws updates until the channel is closed.
func (p *ProgressBar) Consume(updates <-chan tasks.ProgressUpdate) {
	for update := range updates {
		p.Draw(update)
	}
}
