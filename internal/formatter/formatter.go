// package formatter renders concert results as grouped text, CSV or files on disk
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/gigx/internal/models"
)

// Styles decorates the grouped text output.
type Styles struct {
	Header lipgloss.Style
	Artist lipgloss.Style
	Label  lipgloss.Style
	Link   lipgloss.Style
}

// DefaultStyles returns the colored terminal styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		Artist: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Link:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Underline(true),
	}
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() Styles {
	return Styles{Header: lipgloss.NewStyle(), Artist: lipgloss.NewStyle(), Label: lipgloss.NewStyle(), Link: lipgloss.NewStyle()}
}

// LocationGroup is the set of concerts sharing one venue location.
type LocationGroup struct {
	Location string
	Concerts []models.Concert
}

// GroupByLocation groups concerts by location, in first-seen order.
func GroupByLocation(concerts []models.Concert) []LocationGroup {
	index := map[string]int{}
	groups := []LocationGroup{}
	for _, c := range concerts {
		loc := venueLocation(c)
		i, ok := index[loc]
		if !ok {
			i = len(groups)
			index[loc] = i
			groups = append(groups, LocationGroup{Location: loc})
		}
		groups[i].Concerts = append(groups[i].Concerts, c)
	}
	return groups
}

// venueLocation is the concert's location, or the text after the last " - " of the venue string
// for records that carry no location.
func venueLocation(c models.Concert) string {
	if c.Location != "" {
		return c.Location
	}
	if i := strings.LastIndex(c.Venue, " - "); i >= 0 {
		return c.Venue[i+len(" - "):]
	}
	return ""
}

// FormatConcert renders one concert as a block of labelled lines.
//
// The price line appears only when the lowest price is available.
func FormatConcert(c models.Concert, s Styles) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", s.Artist.Render(c.Artist), c.Source)
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("Venue:"), c.Venue)
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("Date:"), c.Date)
	if c.LowestPrice.Available() {
		fmt.Fprintf(&b, "%s $%s - $%s\n", s.Label.Render("Price Range:"), c.LowestPrice, c.HighestPrice)
	}
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("Tickets:"), s.Link.Render(c.TicketsURL))
	return b.String()
}

// ExportToText renders concerts grouped by location followed by totals.
func ExportToText(concerts []models.Concert, s Styles) []byte {
	var buf bytes.Buffer

	if len(concerts) == 0 {
		buf.WriteString("No matching concerts found for your favorite artists during your travels.\n")
		return buf.Bytes()
	}

	buf.WriteString("Found concerts during your travels!\n")

	groups := GroupByLocation(concerts)
	for _, g := range groups {
		fmt.Fprintf(&buf, "\n%s\n", s.Header.Render(fmt.Sprintf("=== Concerts in %s ===", g.Location)))
		for _, c := range g.Concerts {
			buf.WriteString("\n")
			buf.WriteString(FormatConcert(c, s))
		}
	}

	fmt.Fprintf(&buf, "\nTotal concerts found: %d\n", len(concerts))
	fmt.Fprintf(&buf, "Total locations: %d\n", len(groups))
	return buf.Bytes()
}

// ExportToCSV converts concerts to CSV with a header row.
func ExportToCSV(concerts []models.Concert) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Artist", "Source", "Venue", "Location", "Date", "Tickets", "Lowest Price", "Highest Price"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range concerts {
		record := []string{
			c.Artist,
			c.Source,
			c.Venue,
			c.Location,
			c.Date,
			c.TicketsURL,
			c.LowestPrice.String(),
			c.HighestPrice.String(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteExport writes data to path, creating parent directories.
func WriteExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
