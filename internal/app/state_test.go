package app

import (
	"errors"
	"testing"
	"time"

	"github.com/jclabaut/GarminDashboard/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.HasSnapshot() {
		t.Error("new state should have no snapshot")
	}
	if !s.IsLoading() {
		t.Error("state without snapshot should report loading")
	}
	if len(s.GetNotifications()) != 0 {
		t.Error("notifications should be empty")
	}
}

func TestState_SetSnapshot(t *testing.T) {
	s := NewState()
	snap := models.Snapshot{
		Status:  models.StatusReady,
		Totals:  models.Totals{Week: 4.2, Year: 120},
		Monthly: []models.MonthlyBucket{{DistanceKm: 10}},
	}

	s.SetSnapshot(snap)
	snap.Monthly[0].DistanceKm = 99

	got := s.Snapshot()
	if !s.HasSnapshot() {
		t.Error("HasSnapshot should be true")
	}
	if got.Totals.Week != 4.2 {
		t.Errorf("Week = %v, want 4.2", got.Totals.Week)
	}
	if got.Monthly[0].DistanceKm != 10 {
		t.Errorf("stored snapshot shares monthly slice with caller")
	}

	got.Monthly[0].DistanceKm = 50
	if s.Snapshot().Monthly[0].DistanceKm != 10 {
		t.Error("Snapshot should return a copy")
	}
}

func TestState_IsLoading(t *testing.T) {
	s := NewState()

	s.SetSnapshot(models.Snapshot{Status: models.StatusLoading, Loading: true})
	if !s.IsLoading() {
		t.Error("IsLoading should follow the snapshot flag")
	}

	s.SetSnapshot(models.Snapshot{Status: models.StatusReady})
	if s.IsLoading() {
		t.Error("IsLoading should be false once ready")
	}
}

func TestState_WorkoutCountAndImport(t *testing.T) {
	s := NewState()
	if !s.LastImport().IsZero() {
		t.Error("LastImport should start zero")
	}

	now := time.Now()
	s.SetWorkoutCount(42)
	s.SetLastImport(now)

	if s.WorkoutCount() != 42 {
		t.Errorf("WorkoutCount = %d, want 42", s.WorkoutCount())
	}
	if !s.LastImport().Equal(now) {
		t.Errorf("LastImport = %v, want %v", s.LastImport(), now)
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, "n", time.Minute)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("notifications = %d, want %d", got, maxNotifications)
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	s.notifications = append(s.notifications,
		Notification{ID: "expired", CreatedAt: time.Now().Add(-2 * time.Minute), Duration: time.Minute},
		Notification{ID: "active", CreatedAt: time.Now(), Duration: time.Minute},
		Notification{ID: "sticky", CreatedAt: time.Now().Add(-time.Hour)},
	)

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifs))
	}
	if notifs[0].ID != "active" || notifs[1].ID != "sticky" {
		t.Errorf("unexpected survivors: %s, %s", notifs[0].ID, notifs[1].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading workouts...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}
	if notifs[0].Type != NotificationLoading {
		t.Errorf("Expected loading type, got %v", notifs[0].Type)
	}

	s.SetLoadingNotification("Still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "Still loading..." {
		t.Errorf("Expected updated message, got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestState_MergeLoadResult(t *testing.T) {
	s := NewState()

	first := models.Snapshot{Status: models.StatusReady, CustomRangeKm: 3}
	s.MergeLoadResult(first)
	if !s.HasSnapshot() || s.Snapshot().CustomRangeKm != 3 {
		t.Fatal("first result should be applied whole")
	}

	s.SetSnapshot(models.Snapshot{Status: models.StatusReady, CustomRangeKm: 8})
	s.MergeLoadResult(models.Snapshot{
		Status:        models.StatusError,
		Err:           errors.New("store offline"),
		Totals:        models.Totals{Year: 100},
		CustomRangeKm: 3,
	})

	got := s.Snapshot()
	if got.CustomRangeKm != 8 {
		t.Errorf("CustomRangeKm = %v, want 8", got.CustomRangeKm)
	}
	if got.Status != models.StatusError || got.Err == nil || got.Totals.Year != 100 {
		t.Errorf("primary fields not merged: %+v", got)
	}
}
