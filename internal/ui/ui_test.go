package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
	"github.com/desertthunder/gigx/internal/tasks"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleConcerts() []models.Concert {
	return []models.Concert{
		models.NewConcert("SeatGeek", "Radiohead", "O2 Arena", "London, UK", "2024-06-12T20:00:00", "https://sg/1", models.PriceOf(85), models.PriceOf(250)),
		models.NewConcert("Songkick", "Portishead", "Roundhouse", "London, UK", "2024-06-25", "https://sk/3", models.Price{}, models.Price{}),
	}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		confirmed bool
	}{
		{"Yes", "y", true},
		{"Upper Yes", "Y", true},
		{"No", "n", false},
		{"Quit", "q", false},
		{"Interrupt", "ctrl+c", false},
		{"Escape", "esc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModel("Delete everything?", "")
			_, cmd := m.Update(keyPress(tt.key))
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if m.Confirmed() != tt.confirmed {
				t.Errorf("expected confirmed=%v, got %v", tt.confirmed, m.Confirmed())
			}
		})
	}

	t.Run("Other Keys Ignored", func(t *testing.T) {
		m := NewConfirmModel("Delete everything?", "")
		_, cmd := m.Update(keyPress("x"))
		if cmd != nil || m.done {
			t.Error("expected unrelated key to be ignored")
		}
	})

	t.Run("View", func(t *testing.T) {
		m := NewConfirmModel("Delete everything?", "2 tokens, 3 runs")
		view := m.View()
		if !strings.Contains(view, "Delete everything?") || !strings.Contains(view, "2 tokens, 3 runs") {
			t.Errorf("expected question and detail in view, got %q", view)
		}
		m.Update(keyPress("n"))
		if !strings.Contains(m.View(), "Cancelled") {
			t.Errorf("expected cancelled view, got %q", m.View())
		}
	})
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	ok, err := Confirm(context.Background(), strings.NewReader("y"), &out, "Proceed?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected confirmation from input")
	}
}

func TestProgressBar(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgressBar(&out)

	updates := make(chan tasks.ProgressUpdate, 3)
	updates <- tasks.ProgressUpdate{Phase: tasks.Search, Step: 1, Total: 2, Message: "[1/2] Radiohead in London"}
	updates <- tasks.ProgressUpdate{Phase: tasks.Search, Step: 2, Total: 2, Message: "[2/2] Radiohead in Paris"}
	updates <- tasks.ProgressUpdate{Phase: tasks.Complete, Step: 2, Total: 2, Message: "Found 1 concerts"}
	close(updates)

	bar.Consume(updates)

	got := out.String()
	for _, want := range []string{"Radiohead in London", "Radiohead in Paris", "Found 1 concerts"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("expected completion to end the line")
	}
	if !strings.Contains(bar.Render(tasks.ProgressUpdate{Total: 0}), "100%") {
		t.Error("expected empty sweep to render as complete")
	}
}

func TestModel(t *testing.T) {
	runModel := func(t *testing.T, search SearchFunc) *Model {
		t.Helper()
		m := NewModel(context.Background(), search)
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

		cmd := m.Init()
		for cmd != nil {
			msg := cmd()
			_, cmd = m.Update(msg)
			if m.view != SearchView {
				break
			}
		}
		return m
	}

	t.Run("Search Then Browse", func(t *testing.T) {
		m := runModel(t, func(ctx context.Context, progress chan<- tasks.ProgressUpdate) ([]models.Concert, error) {
			progress <- tasks.ProgressUpdate{Phase: tasks.Search, Step: 1, Total: 1, Message: "[1/1] Radiohead in London"}
			return sampleConcerts(), nil
		})

		if m.view != ResultListView {
			t.Fatalf("expected result list view, got %v", m.view)
		}
		if len(m.Concerts()) != 2 || m.Err() != nil {
			t.Fatalf("unexpected results %d, err %v", len(m.Concerts()), m.Err())
		}
		if !strings.Contains(m.View(), "Concerts during your travels (2)") {
			t.Errorf("expected list title in view, got %q", m.View())
		}

		m.Update(keyPress("enter"))
		if m.view != DetailView || m.selected == nil {
			t.Fatal("expected detail view after enter")
		}
		if !strings.Contains(m.View(), "$85 - $250") {
			t.Errorf("expected price range in detail, got %q", m.View())
		}

		m.Update(keyPress("esc"))
		if m.view != ResultListView {
			t.Error("expected esc to return to the list")
		}

		if _, cmd := m.Update(keyPress("q")); cmd == nil {
			t.Error("expected quit command")
		}
	})

	t.Run("Cancelled Search", func(t *testing.T) {
		m := runModel(t, func(ctx context.Context, progress chan<- tasks.ProgressUpdate) ([]models.Concert, error) {
			return sampleConcerts()[:1], shared.ErrCancelled
		})
		if !strings.Contains(m.View(), "partial results") {
			t.Errorf("expected partial results banner, got %q", m.View())
		}
	})

	t.Run("No Results", func(t *testing.T) {
		m := runModel(t, func(ctx context.Context, progress chan<- tasks.ProgressUpdate) ([]models.Concert, error) {
			return []models.Concert{}, nil
		})
		if !strings.Contains(m.View(), "No matching concerts found") {
			t.Errorf("expected empty banner, got %q", m.View())
		}
	})

	t.Run("Search View", func(t *testing.T) {
		m := NewModel(context.Background(), nil)
		m.progress = tasks.ProgressUpdate{Phase: tasks.Search, Step: 1, Total: 4, Message: "[1/4] Björk in Paris"}
		view := m.View()
		if !strings.Contains(view, "Searching providers (1/4)") || !strings.Contains(view, "Björk in Paris") {
			t.Errorf("unexpected search view %q", view)
		}
	})
}

func TestConcertItem(t *testing.T) {
	item := concertItem{concert: sampleConcerts()[0]}
	if item.Title() != "Radiohead (SeatGeek)" {
		t.Errorf("unexpected title %q", item.Title())
	}
	if item.Description() != "2024-06-12T20:00:00 • O2 Arena - London, UK" {
		t.Errorf("unexpected description %q", item.Description())
	}
	if !strings.Contains(item.FilterValue(), "O2 Arena") {
		t.Error("expected venue to be filterable")
	}
}
