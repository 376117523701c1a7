// Package status provides the sync status bar for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/tui/keymap"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/tui/styles"
	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// Bar displays the engine's sync condition and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	status   domain.SyncStatus
	spinner  spinner.Model
	spinning bool
	message  string
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:  s,
		keymap:  km,
		status:  domain.SyncStatus{},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		message: "",
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages. Spinner frames advance only while a
// manual sync is running; the final tick after StopSpinner is dropped,
// which ends the tick chain.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && s.spinning {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	// Left side: sync condition or transient message
	left := s.renderLeft()

	// Right side: keybinding hints
	right := s.renderRight()

	// Calculate padding
	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	bar := s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)

	return bar
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	if s.message != "" {
		return s.styles.Error.Render(s.message)
	}

	state := s.status.State()
	label := state.Description()
	if s.status.QueueDepth > 0 {
		label = fmt.Sprintf("%s (%d queued)", label, s.status.QueueDepth)
	}
	if s.spinning {
		// The frame takes the state's colour along with the label.
		label = s.spinner.View() + " " + label
	}

	switch state {
	case domain.SyncStateSynced:
		return s.styles.Success.Render(label)
	case domain.SyncStateSyncing:
		return s.styles.Normal.Render(label)
	case domain.SyncStatePendingRetry:
		return s.styles.Warning.Render(label)
	case domain.SyncStateOffline:
		return s.styles.Muted.Render(label)
	}
	return s.styles.Muted.Render(label)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hint := fmt.Sprintf("%s: %s", h.Key, h.Desc)
		hints = append(hints, hint)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// StartSpinner begins the sync spinner and returns the command that
// drives its frames.
func (s *Bar) StartSpinner() tea.Cmd {
	s.spinning = true
	return s.spinner.Tick
}

// StopSpinner halts the sync spinner.
func (s *Bar) StopSpinner() {
	s.spinning = false
}

// Spinning returns whether the sync spinner is running.
func (s *Bar) Spinning() bool {
	return s.spinning
}

// SetStatus sets the sync status snapshot to display.
func (s *Bar) SetStatus(status domain.SyncStatus) {
	s.status = status
}

// Status returns the displayed sync status snapshot.
func (s *Bar) Status() domain.SyncStatus {
	return s.status
}

// SetMessage sets a transient message. A non-empty message replaces the
// sync condition on the left side until cleared.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear removes the transient message.
func (s *Bar) Clear() {
	s.message = ""
}
