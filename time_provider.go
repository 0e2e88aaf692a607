package researcher

import (
	"time"
)

// TimeProvider supplies the current time to prompt templates and lets tests pin it.
//
// All methods are accessible in templates via the .Time field:
//
//	Today is {{.Time.Today}} ({{.Time.Weekday}})
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time

	// Today returns today's date as YYYY-MM-DD.
	//
	// Template: {{.Time.Today}}
	// Output: 2025-02-15
	Today() string

	// Weekday returns the current day of the week (e.g. "Saturday").
	Weekday() string

	// Format returns the current time formatted with the given layout.
	//
	// Template: {{.Time.Format "Mon, 02 Jan 2006"}}
	// Output: Sat, 15 Feb 2025
	Format(layout string) string
}

// DefaultTimeProvider is the standard TimeProvider using the system clock.
type DefaultTimeProvider struct{}

// NewDefaultTimeProvider creates a new DefaultTimeProvider.
func NewDefaultTimeProvider() *DefaultTimeProvider {
	return &DefaultTimeProvider{}
}

func (p *DefaultTimeProvider) Now() time.Time { return time.Now() }

func (p *DefaultTimeProvider) Today() string { return p.Now().Format("2006-01-02") }

func (p *DefaultTimeProvider) Weekday() string { return p.Now().Weekday().String() }

func (p *DefaultTimeProvider) Format(layout string) string { return p.Now().Format(layout) }

// FixedTimeProvider is a TimeProvider that always returns the same instant.
type FixedTimeProvider struct {
	t time.Time
}

// NewFixedTimeProvider creates a FixedTimeProvider pinned to t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{t: t}
}

func (p *FixedTimeProvider) Now() time.Time { return p.t }

func (p *FixedTimeProvider) Today() string { return p.t.Format("2006-01-02") }

func (p *FixedTimeProvider) Weekday() string { return p.t.Weekday().String() }

func (p *FixedTimeProvider) Format(layout string) string { return p.t.Format(layout) }

var (
	_ TimeProvider = (*DefaultTimeProvider)(nil)
	_ TimeProvider = (*FixedTimeProvider)(nil)
)
