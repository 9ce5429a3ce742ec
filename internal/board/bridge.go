// ABOUTME: Bridge lets an assistant log days and define metrics through typed events.
// ABOUTME: It has its own subscriber list, separate from the store's change listeners.
package board

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/harperreed/frame/internal/models"
)

// ErrUnknownEvent is returned for an event type the bridge cannot handle.
var ErrUnknownEvent = errors.New("unknown assistant event")

// EventType names an assistant event shape.
type EventType string

const (
	EventLogDay       EventType = "log_day"
	EventDefineMetric EventType = "define_metric"
)

// LogDayPayload logs several values for one date. Values are decoded JSON
// (number, bool, numeric or yes/no string, or null) and coerced per metric type.
type LogDayPayload struct {
	Date    string         `json:"date"`
	Entries map[string]any `json:"entries"`
}

// DefineMetricPayload creates a new metric.
type DefineMetricPayload struct {
	Name      string            `json:"name"`
	Type      models.MetricType `json:"type"`
	Unit      string            `json:"unit,omitempty"`
	GoalType  models.GoalType   `json:"goal_type"`
	GoalValue float64           `json:"goal_value"`
}

// AssistantEvent is one event on the bridge. Exactly one payload matches Type.
type AssistantEvent struct {
	Type         EventType            `json:"type"`
	LogDay       *LogDayPayload       `json:"log_day,omitempty"`
	DefineMetric *DefineMetricPayload `json:"define_metric,omitempty"`
}

// LogDayEvent builds a log_day event.
func LogDayEvent(date string, entries map[string]any) AssistantEvent {
	return AssistantEvent{Type: EventLogDay, LogDay: &LogDayPayload{Date: date, Entries: entries}}
}

// DefineMetricEvent builds a define_metric event.
func DefineMetricEvent(p DefineMetricPayload) AssistantEvent {
	return AssistantEvent{Type: EventDefineMetric, DefineMetric: &p}
}

type eventListener struct {
	id uint64
	fn func(AssistantEvent)
}

// Bridge forwards assistant events into a Store.
type Bridge struct {
	store *Store

	mu        sync.Mutex
	listeners []eventListener
	nextID    uint64
}

// NewBridge returns a bridge that applies events to store.
func NewBridge(store *Store) *Bridge {
	return &Bridge{store: store}
}

// SubscribeToEvents registers fn for every emitted event. Call the returned func to stop.
func (b *Bridge) SubscribeToEvents(fn func(AssistantEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, eventListener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, l := range b.listeners {
				if l.id == id {
					b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// EmitEvent delivers evt to every event subscriber in subscription order.
// It does not touch the store.
func (b *Bridge) EmitEvent(evt AssistantEvent) {
	b.mu.Lock()
	fns := make([]func(AssistantEvent), len(b.listeners))
	for i, l := range b.listeners {
		fns[i] = l.fn
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}

// HandleAssistantEvent applies evt to the store and, on success, emits it.
// log_day merges into the day's entry; define_metric always creates a metric.
func (b *Bridge) HandleAssistantEvent(evt AssistantEvent) error {
	switch evt.Type {
	case EventLogDay:
		if evt.LogDay == nil {
			return fmt.Errorf("%s event has no payload", evt.Type)
		}
		date, err := b.logDay(*evt.LogDay)
		if err != nil {
			return err
		}
		logged := *evt.LogDay
		logged.Date = date
		evt.LogDay = &logged

	case EventDefineMetric:
		if evt.DefineMetric == nil {
			return fmt.Errorf("%s event has no payload", evt.Type)
		}
		p := evt.DefineMetric
		if _, err := b.store.UpsertMetric(models.MetricInput{
			Name:      p.Name,
			Type:      p.Type,
			Unit:      models.Ptr(p.Unit),
			GoalType:  p.GoalType,
			GoalValue: p.GoalValue,
		}); err != nil {
			return fmt.Errorf("define metric: %w", err)
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, evt.Type)
	}

	b.store.logger.Debug("assistant event applied", "type", evt.Type)
	b.EmitEvent(evt)
	return nil
}

// logDay coerces each raw value by its metric's type and applies them in one update.
// An empty date or "today" means the store's current date.
func (b *Bridge) logDay(p LogDayPayload) (string, error) {
	date := strings.TrimSpace(p.Date)
	if date == "" || strings.EqualFold(date, "today") {
		date = b.store.Today()
	}

	values := make(map[string]models.Value, len(p.Entries))
	for slug, raw := range p.Entries {
		m, ok := b.store.MetricBySlug(slug)
		if !ok {
			if raw == nil {
				values[slug] = models.Null
				continue
			}
			return "", fmt.Errorf("log day: %w: metric %q", models.ErrNotFound, slug)
		}
		v, err := models.CoerceValue(m.Type, raw)
		if err != nil {
			return "", fmt.Errorf("log day: %s: %w", slug, err)
		}
		values[m.Slug] = v
	}

	if err := b.store.UpsertDayEntry(date, values); err != nil {
		return "", fmt.Errorf("log day: %w", err)
	}
	return date, nil
}
