package app

import (
	"time"

	"github.com/jclabaut/GarminDashboard/internal/models"
	"github.com/jclabaut/GarminDashboard/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// RefreshMsg requests a full dashboard load.
type RefreshMsg struct {
	// Auto is set when the refresh was scheduled by the auto-refresh timer.
	Auto bool
}

// LoadCompleteMsg carries the snapshot returned by a full load.
type LoadCompleteMsg struct {
	Snapshot models.Snapshot
}

// SetCustomRangeMsg requests a new custom range, [Start, End).
type SetCustomRangeMsg struct {
	Start time.Time
	End   time.Time
}

// CustomRangeResultMsg reports whether the custom range was accepted.
type CustomRangeResultMsg struct {
	Err error
}

// WorkoutCountMsg carries the number of stored workouts.
type WorkoutCountMsg struct {
	Count int
	Err   error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel <-chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// QuitMsg requests the application to quit.
type QuitMsg struct{}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
