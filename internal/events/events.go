// Package events describes board changes for external delivery. The
// engine only emits descriptions; it performs no network calls and never
// blocks on delivery outcome.
package events

import "time"

// Event types emitted by the board service.
const (
	TypeBoardUpdated = "board.updated"
	TypeCardCreated  = "card.created"
	TypeCardMoved    = "card.moved"
	TypeCardDeleted  = "card.deleted"
)

// Event describes one change to a board.
type Event struct {
	Type    string    `json:"type"`
	BoardID string    `json:"boardId"`
	CardID  string    `json:"cardId,omitempty"`
	At      time.Time `json:"at"`
	Data    any       `json:"data,omitempty"`
}

// Publisher fans an event out to interested collaborators (websocket
// clients, webhook delivery, ...). Implementations must not block the
// caller.
type Publisher interface {
	Publish(event Event)
}

// Nop discards all events; used by the CLI and in tests.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(Event) {}

// Recorder collects events in memory, for tests.
type Recorder struct {
	Events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(event Event) {
	r.Events = append(r.Events, event)
}
