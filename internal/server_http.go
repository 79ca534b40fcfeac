package internal

import (
	"encoding/json"
	"errors"
	"net/http"
)

type appendMessageRequest struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

type touchTypingRequest struct {
	Author string `json:"author"`
}

type typingStatusResponse struct {
	TypingAuthors []string `json:"typingAuthors"`
}

// HandleListMessages returns the full history snapshot. Clients diff against
// their previous poll locally; the server hands out the whole log every time.
func (s *Server) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncMessagePoll()
	snapshot := s.messages.List()
	if snapshot == nil {
		snapshot = []Message{}
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) HandleAppendMessage(w http.ResponseWriter, r *http.Request) {
	var req appendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	msg, err := s.messages.Append(r.Context(), req.Content, req.Author)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.metrics.IncAppend()
	s.logger.Debug().Str("author", msg.Author).Str("id", msg.ID).Msg("message appended")
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) HandleTouchTyping(w http.ResponseWriter, r *http.Request) {
	var req touchTypingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.presence.Touch(req.Author); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.metrics.IncTouch()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleTypingStatus(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncTypingPoll()
	exclude := r.URL.Query().Get("exclude")
	authors := s.presence.ActiveAuthors(exclude)
	if authors == nil {
		authors = []string{}
	}
	writeJSON(w, http.StatusOK, typingStatusResponse{TypingAuthors: authors})
}

func (s *Server) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr)
	case errors.Is(err, ErrUnavailable):
		s.logger.Error().Err(err).Msg("message store unavailable")
		writeError(w, http.StatusServiceUnavailable, ErrUnavailable)
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err)
	}
}

func decodeJSON(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
