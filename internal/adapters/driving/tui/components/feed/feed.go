// Package feed provides the live change feed component for the TUI.
package feed

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/tui/styles"
	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// DefaultCapacity is how many changes the feed retains.
const DefaultCapacity = 50

// Feed displays recent progress changes, newest first. Changes made on
// other devices carry a remote badge so players can tell them apart from
// their own.
type Feed struct {
	events   []domain.ChangeEvent
	capacity int
	styles   *styles.Styles
	width    int
	height   int
}

// NewFeed creates a new change feed component.
func NewFeed(s *styles.Styles) *Feed {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Feed{
		events:   nil,
		capacity: DefaultCapacity,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the feed.
func (f *Feed) Init() tea.Cmd {
	return nil
}

// Update handles feed messages.
func (f *Feed) Update(msg tea.Msg) (*Feed, tea.Cmd) {
	// Feed is passive, fed via Push
	return f, nil
}

// View renders the feed.
func (f *Feed) View() string {
	if len(f.events) == 0 {
		return f.styles.Muted.Render("No changes yet")
	}

	lines := make([]string, 0, len(f.events)+2)

	// Header
	header := f.styles.Subtitle.Render("Recent changes")
	lines = append(lines, header, "")

	// Calculate visible range based on height
	visibleCount := f.height - 2
	if visibleCount < 1 {
		visibleCount = 1
	}
	if visibleCount > len(f.events) {
		visibleCount = len(f.events)
	}

	for i := 0; i < visibleCount; i++ {
		lines = append(lines, f.renderEvent(&f.events[i]))
	}

	return strings.Join(lines, "\n")
}

// renderEvent formats a single change with its origin badge.
func (f *Feed) renderEvent(event *domain.ChangeEvent) string {
	badge := f.styles.Muted.Render("[local]")
	if event.Origin == domain.OriginRemote {
		badge = f.styles.Badge.Render("[remote]")
	}

	text := describe(event)

	// Truncate to fit width
	maxLen := f.width - 12
	if maxLen < 20 {
		maxLen = 20
	}
	if len(text) > maxLen {
		text = text[:maxLen-3] + "..."
	}

	return "  " + badge + " " + f.styles.Normal.Render(text)
}

// describe renders a change in the same vocabulary the CLI uses.
func describe(event *domain.ChangeEvent) string {
	switch event.Domain {
	case domain.DomainQuest:
		if event.Value != 0 {
			return fmt.Sprintf("quest %s completed", event.EntityID)
		}
		return fmt.Sprintf("quest %s reopened", event.EntityID)
	case domain.DomainStation:
		if event.Value != 0 {
			return fmt.Sprintf("station %s built", event.EntityID)
		}
		return fmt.Sprintf("station %s demolished", event.EntityID)
	case domain.DomainItemQuantity:
		return fmt.Sprintf("%s x%d", event.EntityID, event.Value)
	}
	return fmt.Sprintf("%s %s = %d", event.Domain, event.EntityID, event.Value)
}

// Push inserts a change at the front of the feed, dropping the oldest
// once the capacity is reached.
func (f *Feed) Push(event domain.ChangeEvent) {
	f.events = append([]domain.ChangeEvent{event}, f.events...)
	if len(f.events) > f.capacity {
		f.events = f.events[:f.capacity]
	}
}

// Events returns the retained changes, newest first.
func (f *Feed) Events() []domain.ChangeEvent {
	return f.events
}

// SetDimensions sets the component dimensions.
func (f *Feed) SetDimensions(width, height int) {
	f.width = width
	f.height = height
}

// Width returns the current width.
func (f *Feed) Width() int {
	return f.width
}

// Height returns the current height.
func (f *Feed) Height() int {
	return f.height
}

// Count returns the number of retained changes.
func (f *Feed) Count() int {
	return len(f.events)
}

// IsEmpty returns whether the feed is empty.
func (f *Feed) IsEmpty() bool {
	return len(f.events) == 0
}
