package sdk

import "time"

// Activity is a span of time the host attributed to one application window.
// ID stays nil until the host persists the record.
type Activity struct {
	ID          *int64     `json:"id,omitempty"`
	AppName     string     `json:"app_name"`
	WindowTitle string     `json:"window_title"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	CategoryID  *int64     `json:"category_id,omitempty"`
}

// Open reports whether the activity is still being recorded.
func (a Activity) Open() bool {
	return a.EndedAt == nil
}

// Duration returns the elapsed time of a closed activity and zero for an
// open one.
func (a Activity) Duration() time.Duration {
	if a.EndedAt == nil || a.EndedAt.Before(a.StartedAt) {
		return 0
	}
	return a.EndedAt.Sub(a.StartedAt)
}

// Category groups activities for reporting.
type Category struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Migration is a versioned schema statement. Plugins produce them, the host
// applies them in Version order.
type Migration struct {
	Version int    `json:"version"`
	SQL     string `json:"sql"`
}
