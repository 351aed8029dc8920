package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/gigx/internal/models"
)

var (
	_ list.Item = concertItem{}
)

// concertItem wraps [models.Concert] to implement [list.Item].
type concertItem struct {
	concert models.Concert
}

func (i concertItem) FilterValue() string { return i.concert.Artist + " " + i.concert.Venue }
func (i concertItem) Title() string {
	return fmt.Sprintf("%s (%s)", i.concert.Artist, i.concert.Source)
}
func (i concertItem) Description() string {
	return fmt.Sprintf("%s • %s", i.concert.Date, i.concert.Venue)
}

func concertItems(concerts []models.Concert) []list.Item {
	items := make([]list.Item, len(concerts))
	for i, c := range concerts {
		items[i] = concertItem{concert: c}
	}
	return items
}
