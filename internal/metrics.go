package internal

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Metrics keeps cheap request counters for the polling endpoints.
type Metrics struct {
	appends      atomic.Uint64
	touches      atomic.Uint64
	messagePolls atomic.Uint64
	typingPolls  atomic.Uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncAppend() {
	m.appends.Add(1)
}

func (m *Metrics) IncTouch() {
	m.touches.Add(1)
}

func (m *Metrics) IncMessagePoll() {
	m.messagePolls.Add(1)
}

func (m *Metrics) IncTypingPoll() {
	m.typingPolls.Add(1)
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"appends_total":       m.appends.Load(),
		"touches_total":       m.touches.Load(),
		"message_polls_total": m.messagePolls.Load(),
		"typing_polls_total":  m.typingPolls.Load(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
