// Package alerts provides the status lines commands print next to their
// output, such as "✓ Updated LOBBY-01-p3".
package alerts

import (
	"fmt"
	"strings"
)

// Alert is one status notification.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// Newf creates an alert with a formatted message.
func Newf(level Level, format string, args ...any) *Alert {
	return New(level, fmt.Sprintf(format, args...))
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds indented detail lines below the message.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns the alert without color.
func (a *Alert) String() string {
	var b strings.Builder
	b.WriteString(a.Level.Icon())
	b.WriteByte(' ')
	b.WriteString(a.Message)
	if a.Err != nil {
		b.WriteString(": ")
		b.WriteString(a.Err.Error())
	}
	for _, d := range a.Details {
		b.WriteString("\n   ")
		b.WriteString(d)
	}
	return b.String()
}
