package util

import (
	"fmt"
	"sync"
	"time"
)

// TimeProvider is a global time utility that handles timezone-aware time operations
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	timeProviderMu     sync.Mutex
)

// InitializeTimeProvider initializes the global time provider with the specified timezone
func InitializeTimeProvider(timezone string) error {
	timeProviderMu.Lock()
	defer timeProviderMu.Unlock()

	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global time provider instance.
// If not initialized, it defaults to Local timezone.
func GetTimeProvider() *TimeProvider {
	if globalTimeProvider == nil {
		InitializeTimeProvider("Local")
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Asia/Shanghai, Europe/London", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.Now().In(tp.location)
}

// In converts a time to the configured timezone
func (tp *TimeProvider) In(t time.Time) time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return t.In(tp.location)
}

// Location returns the configured timezone location
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// dateLayouts are the accepted formats for user-supplied dates, most
// specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateMillis parses a user-supplied date string in the configured
// timezone and returns a Unix millisecond timestamp.
func (tp *TimeProvider) ParseDateMillis(value string) (int64, error) {
	tp.mu.RLock()
	loc := tp.location
	tp.mu.RUnlock()

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("invalid date '%s': expected formats like 2006-01-02 or 2006-01-02 15:04", value)
}

// EndOfDayMillis returns the millisecond timestamp for the last instant of
// the day containing the given date string. Used for inclusive --to bounds.
func (tp *TimeProvider) EndOfDayMillis(value string) (int64, error) {
	tp.mu.RLock()
	loc := tp.location
	tp.mu.RUnlock()

	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		// Not a bare date; fall back to exact parse
		return tp.ParseDateMillis(value)
	}
	return t.AddDate(0, 0, 1).UnixMilli() - 1, nil
}

// FormatMillis renders a millisecond timestamp in the configured timezone.
func (tp *TimeProvider) FormatMillis(ms int64, layout string) string {
	return tp.In(time.UnixMilli(ms)).Format(layout)
}
