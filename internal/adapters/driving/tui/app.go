package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/tui/components/feed"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/tui/components/status"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/tui/keymap"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/tui/messages"
	"github.com/tracklight-labs/tracklight-cli/internal/adapters/driving/tui/styles"
	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// statusInterval is how often the status bar re-reads the engine's
// sync snapshot.
const statusInterval = 2 * time.Second

// App is the live progress dashboard following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the dashboard keybindings.
	keys *keymap.KeyMap

	// statusBar shows the sync condition and key hints.
	statusBar *status.Bar

	// changeFeed shows recent changes, newest first.
	changeFeed *feed.Feed

	// quests, stations and items are the cached progress snapshot.
	quests   []domain.ProgressRecord
	stations []domain.ProgressRecord
	items    []domain.ProgressRecord

	// events is the engine's change feed; cancelSub releases it.
	events    <-chan domain.ChangeEvent
	cancelSub func()

	// account labels the signed-in user in the header.
	account string

	// showHelp toggles the help view.
	showHelp bool

	// syncing guards against stacking manual reconciles.
	syncing bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new dashboard with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keys:       km,
		statusBar:  status.NewBar(s, km),
		changeFeed: feed.NewFeed(s),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It opens the engine's change feed and runs initial commands.
func (a *App) Init() tea.Cmd {
	events, cancel := a.ports.Progress.Subscribe()
	a.events = events
	a.cancelSub = cancel

	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("tracklight - Progress"),
		a.loadSnapshot,
		a.loadAccount,
		a.waitForChange(),
		tickStatus(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SnapshotLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetMessage(fmt.Sprintf("load failed: %v", msg.Err))
			return a, nil
		}
		a.err = nil
		a.quests = msg.Quests
		a.stations = msg.Stations
		a.items = msg.Items
		a.statusBar.SetStatus(a.ports.Progress.Status())
		return a, nil

	case messages.ChangeObserved:
		a.changeFeed.Push(msg.Event)
		a.applyChange(msg.Event)
		a.statusBar.SetStatus(a.ports.Progress.Status())
		return a, a.waitForChange()

	case messages.FeedClosed:
		a.events = nil
		return a, nil

	case messages.SyncFinished:
		a.syncing = false
		a.statusBar.StopSpinner()
		a.statusBar.SetStatus(a.ports.Progress.Status())
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrSyncInProgress) {
			a.statusBar.SetMessage(fmt.Sprintf("sync failed: %v", msg.Err))
			return a, nil
		}
		a.statusBar.Clear()
		return a, a.loadSnapshot

	case messages.StatusTicked:
		a.statusBar.SetStatus(a.ports.Progress.Status())
		return a, tickStatus()

	case messages.AccountLoaded:
		a.account = msg.Account
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		if msg.Err != nil {
			a.statusBar.SetMessage(msg.Err.Error())
		}
		return a, nil

	case messages.Quit:
		a.shutdown()
		return a, tea.Quit
	}

	// Everything else belongs to the status bar (spinner frames).
	var cmd tea.Cmd
	a.statusBar, cmd = a.statusBar.Update(msg)
	return a, cmd
}

// handleKey dispatches dashboard keybindings.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keys.Quit):
		a.shutdown()
		return a, tea.Quit

	case keymap.Matches(k, a.keys.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case keymap.Matches(k, a.keys.Sync):
		if a.syncing {
			return a, nil
		}
		a.syncing = true
		a.statusBar.Clear()
		a.statusBar.SetStatus(a.ports.Progress.Status())
		return a, tea.Batch(a.runSync(), a.statusBar.StartSpinner())

	case keymap.Matches(k, a.keys.Refresh):
		a.statusBar.Clear()
		return a, a.loadSnapshot
	}

	return a, nil
}

// loadSnapshot reads all three progress domains from the cache.
func (a *App) loadSnapshot() tea.Msg {
	quests, err := a.ports.Progress.ReadAll(domain.DomainQuest)
	if err != nil {
		return messages.SnapshotLoaded{Err: err}
	}
	stations, err := a.ports.Progress.ReadAll(domain.DomainStation)
	if err != nil {
		return messages.SnapshotLoaded{Err: err}
	}
	items, err := a.ports.Progress.ReadAll(domain.DomainItemQuantity)
	if err != nil {
		return messages.SnapshotLoaded{Err: err}
	}
	return messages.SnapshotLoaded{Quests: quests, Stations: stations, Items: items}
}

// loadAccount resolves the signed-in account label for the header.
func (a *App) loadAccount() tea.Msg {
	if a.ports.Session == nil {
		return messages.AccountLoaded{}
	}
	session, err := a.ports.Session.Current(a.ctx)
	if err != nil {
		return messages.AccountLoaded{}
	}
	account := session.Email
	if account == "" {
		account = session.UserID
	}
	return messages.AccountLoaded{Account: account}
}

// waitForChange blocks on the engine's change feed until the next change.
func (a *App) waitForChange() tea.Cmd {
	events := a.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return messages.FeedClosed{}
		}
		return messages.ChangeObserved{Event: event}
	}
}

// runSync triggers a reconcile against the remote store.
func (a *App) runSync() tea.Cmd {
	ctx := a.ctx
	progress := a.ports.Progress
	return func() tea.Msg {
		return messages.SyncFinished{Err: progress.Reconcile(ctx)}
	}
}

// tickStatus schedules the next status bar refresh.
func tickStatus() tea.Cmd {
	return tea.Tick(statusInterval, func(time.Time) tea.Msg {
		return messages.StatusTicked{}
	})
}

// applyChange folds one change into the cached snapshot.
func (a *App) applyChange(event domain.ChangeEvent) {
	switch event.Domain {
	case domain.DomainQuest:
		a.quests = upsert(a.quests, event)
	case domain.DomainStation:
		a.stations = upsert(a.stations, event)
	case domain.DomainItemQuantity:
		a.items = upsert(a.items, event)
	}
}

// upsert updates the record the change names, appending when the entity
// was not yet tracked.
func upsert(records []domain.ProgressRecord, event domain.ChangeEvent) []domain.ProgressRecord {
	for i := range records {
		if records[i].EntityID == event.EntityID {
			records[i].Value = event.Value
			return records
		}
	}
	return append(records, domain.ProgressRecord{
		ID:       domain.NewRecordID(event.Domain, event.EntityID),
		Domain:   event.Domain,
		EntityID: event.EntityID,
		Value:    event.Value,
	})
}

// shutdown releases the engine subscription.
func (a *App) shutdown() {
	if a.cancelSub != nil {
		a.cancelSub()
		a.cancelSub = nil
	}
}

// resize propagates terminal dimensions to the components.
func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	// Header, counts and spacing take eight rows; the feed gets the rest.
	a.changeFeed.SetDimensions(width, height-8)
}

// View implements tea.Model.
// It renders the dashboard as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.showHelp {
		return a.viewHelp()
	}

	sections := []string{
		a.viewHeader(),
		a.viewCounts(),
		a.changeFeed.View(),
		a.statusBar.View(),
	}
	return strings.Join(sections, "\n\n")
}

// viewHeader renders the title line with the signed-in account.
func (a *App) viewHeader() string {
	header := a.styles.Title.Render("Tracklight")
	if a.account != "" {
		header += a.styles.Muted.Render("  " + a.account)
	}
	return header
}

// viewCounts renders the per-domain progress summary.
func (a *App) viewCounts() string {
	lines := []string{
		fmt.Sprintf("%s  %d/%d completed",
			a.styles.Subtitle.Render("Quests  "), countDone(a.quests), len(a.quests)),
		fmt.Sprintf("%s  %d/%d built",
			a.styles.Subtitle.Render("Stations"), countDone(a.stations), len(a.stations)),
		fmt.Sprintf("%s  %d tracked, %d units",
			a.styles.Subtitle.Render("Items   "), len(a.items), sumValues(a.items)),
	}
	return strings.Join(lines, "\n")
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Dashboard:
  s           Sync with the remote store now
  r           Reload progress from local storage
  ?           Toggle this help
  q, ctrl+c   Quit

The feed shows recent changes. Changes tagged [remote] were made on
another device and arrived through sync.

[?] back to dashboard`
}

// countDone counts records with a non-zero value.
func countDone(records []domain.ProgressRecord) int {
	done := 0
	for i := range records {
		if records[i].Done() {
			done++
		}
	}
	return done
}

// sumValues totals item quantities.
func sumValues(records []domain.ProgressRecord) int64 {
	var total int64
	for i := range records {
		total += records[i].Value
	}
	return total
}

// Run starts the dashboard.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Account returns the signed-in account label.
func (a *App) Account() string {
	return a.account
}

// Syncing returns whether a manual reconcile is in flight.
func (a *App) Syncing() bool {
	return a.syncing
}

// ShowingHelp returns whether the help view is visible.
func (a *App) ShowingHelp() bool {
	return a.showHelp
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.resize(width, height)
}
