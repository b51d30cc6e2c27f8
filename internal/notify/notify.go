// Package notify delivers user-visible feedback messages.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Level of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Notification is a single feedback message
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notifications
type Notifier interface {
	Notify(n Notification)
}

// New builds a notification stamped with the current time
func New(level Level, format string, args ...interface{}) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
		At:      time.Now(),
	}
}

// Success sends a success notification to n
func Success(n Notifier, format string, args ...interface{}) {
	n.Notify(New(LevelSuccess, format, args...))
}

// Info sends an informational notification to n
func Info(n Notifier, format string, args ...interface{}) {
	n.Notify(New(LevelInfo, format, args...))
}

// Console prints notifications to a writer, colored by level
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console notifier writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch n.Level {
	case LevelSuccess:
		color.New(color.FgGreen).Fprintf(c.w, "✓ %s\n", n.Message)
	default:
		color.New(color.FgCyan).Fprintf(c.w, "• %s\n", n.Message)
	}
}

// Feed keeps the most recent notifications in memory
type Feed struct {
	mu    sync.RWMutex
	limit int
	items []Notification
}

// NewFeed creates a feed holding at most limit notifications
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit}
}

func (f *Feed) Notify(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]Notification(nil), f.items[over:]...)
	}
}

// Recent returns up to n notifications, newest first. n <= 0 returns all.
func (f *Feed) Recent(n int) []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || n > len(f.items) {
		n = len(f.items)
	}
	out := make([]Notification, 0, n)
	for i := len(f.items) - 1; i >= len(f.items)-n; i-- {
		out = append(out, f.items[i])
	}
	return out
}

// Multi fans out to several notifiers
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// Discard drops every notification
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) {}
