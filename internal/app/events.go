package app

import (
	"sync"

	"brainrot-quiz-service/internal/domain"
)

// Event types published to a player's subscribers.
const (
	EventState         = "state"
	EventTick          = "tick"
	EventOutcome       = "outcome"
	EventFinished      = "finished"
	EventCaptureFailed = "captureFailed"
)

// Event is a game update for one player.
type Event struct {
	Type    string                  `json:"type"`
	State   domain.SessionState     `json:"state"`
	Outcome *domain.QuestionOutcome `json:"outcome,omitempty"`
	Summary *domain.Summary         `json:"summary,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// hub fans events out per player. Subscriptions outlive individual sessions so a
// restart or a fresh start keeps the same listeners.
type hub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan Event]struct{}
}

func newHub() *hub {
	return &hub{subscribers: make(map[string]map[chan Event]struct{})}
}

func (h *hub) subscribe(playerID string) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	subs, ok := h.subscribers[playerID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.subscribers[playerID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[playerID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, playerID)
		}
	}
	return ch, cancel
}

func (h *hub) publish(playerID string, ev Event) {
	h.publishIf(playerID, ev, nil)
}

// publishIf delivers ev only when current reports true. current runs under the hub lock,
// so no other event can be published between the check and the delivery.
func (h *hub) publishIf(playerID string, ev Event, current func() bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current != nil && !current() {
		return
	}
	for ch := range h.subscribers[playerID] {
		select {
		case ch <- ev:
		default:
			// Drop the oldest update so a slow client never blocks the game.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
