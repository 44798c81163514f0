package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jclabaut/GarminDashboard/internal/models"
	"github.com/jclabaut/GarminDashboard/internal/services"
)

// stubTab records the messages it receives.
type stubTab struct {
	capturing bool
	keys      []string
	w, h      int
}

func (s *stubTab) Init() tea.Cmd { return nil }
func (s *stubTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *stubTab) View() string              { return "stub view" }
func (s *stubTab) SetSize(w, h int)          { s.w, s.h = w, h }
func (s *stubTab) ShortHelp() []key.Binding  { return nil }
func (s *stubTab) FullHelp() [][]key.Binding { return nil }
func (s *stubTab) CapturesInput() bool       { return s.capturing }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func readyModel(b Backend) *Model {
	m := NewModel(b, 0)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil, 0)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabDashboard {
		t.Error("Default tab should be Dashboard")
	}
	if len(model.tabs) != 2 {
		t.Errorf("Should have 2 tab placeholders, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(&fakeBackend{}, time.Minute)
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	if !model.state.IsLoading() {
		t.Error("state should be loading before the first snapshot")
	}
	if len(model.state.GetNotifications()) != 1 {
		t.Error("Init should show the loading notification")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil, 0)
	tab := &stubTab{}
	model.SetTabs([]Tab{tab, nil})

	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}
	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", m.width, m.height)
	}
	if !m.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
	if tab.w != 100 || tab.h != 45 {
		t.Errorf("tab size = %dx%d, want 100x45", tab.w, tab.h)
	}
}

func TestModel_Update_TabSwitch(t *testing.T) {
	model := readyModel(nil)

	model.Update(TabSwitchMsg{Tab: TabInfo})
	if model.activeTab != TabInfo {
		t.Errorf("ActiveTab = %v, want Info", model.activeTab)
	}

	model.Update(runeKey('1'))
	if model.activeTab != TabDashboard {
		t.Errorf("ActiveTab = %v, want Dashboard", model.activeTab)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabInfo {
		t.Errorf("ActiveTab = %v, want Info after tab", model.activeTab)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabDashboard {
		t.Errorf("ActiveTab = %v, want wrap to Dashboard", model.activeTab)
	}
}

func TestModel_CapturingTabOwnsKeys(t *testing.T) {
	model := readyModel(nil)
	tab := &stubTab{capturing: true}
	model.SetTabs([]Tab{tab, nil})

	model.Update(runeKey('2'))
	model.Update(runeKey('q'))

	if model.activeTab != TabDashboard {
		t.Error("global keys must not switch tabs while the tab captures input")
	}
	if len(tab.keys) != 2 {
		t.Errorf("tab received %v, want both keys", tab.keys)
	}

	cmd := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should still quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
}

func TestModel_RefreshKeyLoads(t *testing.T) {
	b := &fakeBackend{snap: models.Snapshot{Status: models.StatusReady}}
	model := readyModel(b)

	cmd := model.handleKeyMsg(runeKey('r'))
	if cmd == nil {
		t.Fatal("refresh key should return a command")
	}
	if _, ok := cmd().(LoadCompleteMsg); !ok {
		t.Error("refresh should run a full load")
	}
	if b.loadCount() != 1 {
		t.Errorf("loads = %d, want 1", b.loadCount())
	}
}

func TestModel_AutoRefreshReschedules(t *testing.T) {
	model := NewModel(&fakeBackend{}, time.Minute)

	if cmds := model.handleRefresh(RefreshMsg{Auto: true}); len(cmds) != 2 {
		t.Errorf("auto refresh should load and reschedule, got %d cmds", len(cmds))
	}
	if cmds := model.handleRefresh(RefreshMsg{}); len(cmds) != 1 {
		t.Errorf("manual refresh should only load, got %d cmds", len(cmds))
	}
	if cmds := NewModel(nil, time.Minute).handleRefresh(RefreshMsg{Auto: true}); cmds != nil {
		t.Error("refresh without backend should be a no-op")
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil, 0)
	_, cmd := model.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_LoadComplete(t *testing.T) {
	model := NewModel(nil, 0)
	model.Init()

	model.Update(LoadCompleteMsg{Snapshot: models.Snapshot{
		Status: models.StatusReady,
		Totals: models.Totals{Week: 4.2},
	}})

	if model.state.IsLoading() {
		t.Error("state should not be loading after a ready snapshot")
	}
	if got := model.state.Snapshot().Totals.Week; got != 4.2 {
		t.Errorf("Week = %v, want 4.2", got)
	}
	if len(model.state.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestModel_LoadCompleteError(t *testing.T) {
	model := NewModel(nil, 0)

	cmds := model.handleLoadComplete(LoadCompleteMsg{Snapshot: models.Snapshot{
		Status: models.StatusError,
		Err:    errors.New("health data access was not granted"),
	}})

	if len(cmds) != 1 {
		t.Fatalf("expected one notification command, got %d", len(cmds))
	}
	add, ok := cmds[0]().(AddNotificationMsg)
	if !ok || add.Type != NotificationError || !strings.Contains(add.Message, "not granted") {
		t.Errorf("unexpected notification %#v", add)
	}
}

func TestModel_LoadCompleteKeepsNewerCustomRange(t *testing.T) {
	model := NewModel(nil, 0)

	window := models.TimeWindow{
		Start: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	model.Update(ServiceEventMsg{Event: services.SnapshotEvent{Snapshot: models.Snapshot{
		Status:        models.StatusLoading,
		Loading:       true,
		CustomRange:   window,
		CustomRangeKm: 12.5,
	}}})

	// The load result was captured before the custom total arrived.
	model.Update(LoadCompleteMsg{Snapshot: models.Snapshot{
		Status: models.StatusReady,
		Totals: models.Totals{Week: 4.2},
	}})

	snap := model.state.Snapshot()
	if snap.CustomRangeKm != 12.5 || snap.CustomRange != window {
		t.Errorf("custom range rolled back to %v / %v", snap.CustomRange, snap.CustomRangeKm)
	}
	if snap.Totals.Week != 4.2 || snap.Status != models.StatusReady {
		t.Errorf("primary fields not applied: %+v", snap)
	}
	if model.state.IsLoading() {
		t.Error("state should not be loading after the load completed")
	}
}

func TestModel_SnapshotEventFollowsLoading(t *testing.T) {
	model := NewModel(nil, 0)

	model.handleServiceEvent(services.SnapshotEvent{Snapshot: models.Snapshot{Status: models.StatusLoading, Loading: true}})
	notifs := model.state.GetNotifications()
	if len(notifs) != 1 || notifs[0].ID != LoadingNotificationID {
		t.Fatalf("expected loading notification, got %v", notifs)
	}

	model.handleServiceEvent(services.SnapshotEvent{Snapshot: models.Snapshot{Status: models.StatusReady, CustomRangeKm: 12.5}})
	if len(model.state.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
	if model.state.Snapshot().CustomRangeKm != 12.5 {
		t.Error("snapshot should be stored")
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(&fakeBackend{count: 3}, 0)

	if cmd := model.handleServiceEvent(services.ImportEvent{Count: 3}); cmd == nil {
		t.Error("import event should notify and reload the count")
	}
	if model.state.LastImport().IsZero() {
		t.Error("import should record its time")
	}

	cmd := model.handleServiceEvent(services.GoalReachedEvent{WeekKm: 31, GoalKm: 30})
	if add, ok := cmd().(AddNotificationMsg); !ok || !strings.Contains(add.Message, "31.0") {
		t.Errorf("goal event should notify, got %#v", add)
	}

	cmd = model.handleServiceEvent(services.ErrorEvent{Service: "importer", Error: errors.New("bad file")})
	if add, ok := cmd().(AddNotificationMsg); !ok || add.Type != NotificationError {
		t.Errorf("error event should notify error, got %#v", add)
	}
}

func TestModel_CustomRangeMessages(t *testing.T) {
	b := &fakeBackend{}
	model := NewModel(b, 0)
	start := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	cmds := model.handleAppMsg(SetCustomRangeMsg{Start: start, End: start.AddDate(0, 0, 7)})
	if len(cmds) != 1 {
		t.Fatalf("expected one command, got %d", len(cmds))
	}
	if _, ok := cmds[0]().(CustomRangeResultMsg); !ok {
		t.Error("expected CustomRangeResultMsg")
	}
	if len(b.ranges) != 1 {
		t.Errorf("backend ranges = %v", b.ranges)
	}

	if cmds := model.handleAppMsg(CustomRangeResultMsg{}); len(cmds) != 0 {
		t.Error("accepted range should not notify")
	}
	if cmds := model.handleAppMsg(CustomRangeResultMsg{Err: errors.New("end before start")}); len(cmds) != 1 {
		t.Error("rejected range should notify")
	}
}

func TestModel_WorkoutCount(t *testing.T) {
	model := NewModel(nil, 0)
	model.Update(WorkoutCountMsg{Count: 7})
	model.Update(WorkoutCountMsg{Count: 99, Err: errors.New("db closed")})

	if model.state.WorkoutCount() != 7 {
		t.Errorf("WorkoutCount = %d, want 7", model.state.WorkoutCount())
	}
}

func TestModel_Subscription(t *testing.T) {
	b := &fakeBackend{}
	model := NewModel(b, 0)

	msg := subscribeToServicesCmd(b)()
	sub, ok := msg.(SubscriptionEventMsg)
	if !ok {
		t.Fatalf("Expected SubscriptionEventMsg, got %T", msg)
	}
	model.Update(sub)
	if model.eventChannel == nil {
		t.Fatal("event channel should be stored")
	}

	b.ch <- services.ImportEvent{Count: 1}
	next := waitForServiceEventCmd(model.eventChannel)()
	if _, ok := next.(ServiceEventMsg); !ok {
		t.Errorf("Expected ServiceEventMsg, got %T", next)
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil, 0)

	if view := model.View(); !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.ready = true
	model.width = 80
	model.height = 24

	view := model.View()
	if !strings.Contains(view, "Dashboard") {
		t.Error("View should show Dashboard tab")
	}
	if !strings.Contains(view, "not yet implemented") {
		t.Error("View should show placeholder text")
	}

	model.SetTabs([]Tab{&stubTab{}, nil})
	if view := model.View(); !strings.Contains(view, "stub view") {
		t.Error("View should render the active tab")
	}
}

func TestModel_Help(t *testing.T) {
	model := readyModel(nil)

	model.Update(ToggleHelpMsg{})
	if !model.showHelp {
		t.Error("showHelp should be true")
	}
	if view := model.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("Esc should close help")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := readyModel(nil)
	model.Update(AddNotificationMsg{Message: "Test Note", Type: NotificationInfo})

	if len(model.state.GetNotifications()) != 1 {
		t.Errorf("Expected 1 notification")
	}
	if view := model.View(); !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}

	_, cmd := model.Update(AddNotificationMsg{Message: "timed", Type: NotificationInfo, Duration: time.Millisecond})
	if cmd == nil {
		t.Error("timed notification should schedule its removal")
	}
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil, 0)
	_, cmd := model.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	if TabDashboard.String() != "Dashboard" {
		t.Error("TabDashboard.String() mismatch")
	}
	if TabInfo.String() != "Info" {
		t.Error("TabInfo.String() mismatch")
	}
	if TabID(999).String() != "Unknown" {
		t.Error("Unknown tab string mismatch")
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
