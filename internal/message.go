package internal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MaxContentLength bounds a single chat message.
const MaxContentLength = 500

// Message is one immutable entry in the room log. Ordering key is CreatedAt;
// ties break by arrival order at the log.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageArchive is the optional durable collaborator behind the log.
// Typing presence is deliberately not part of this contract.
type MessageArchive interface {
	SaveMessage(ctx context.Context, msg Message) error
	LoadMessages(ctx context.Context) ([]Message, error)
}

type appendInput struct {
	Content string `validate:"required,max=500"`
	Author  string `validate:"required"`
}

var validate = validator.New()

// MessageLog is the append-only room history. Entries are never mutated or
// deleted, which is what makes the clients' count-based diffing safe.
type MessageLog struct {
	mu      sync.Mutex
	entries []Message
	archive MessageArchive
	now     func() time.Time
}

// NewMessageLog builds an empty log. archive may be nil for a purely
// in-memory room.
func NewMessageLog(archive MessageArchive) *MessageLog {
	return &MessageLog{
		archive: archive,
		now:     time.Now,
	}
}

// Hydrate loads previously persisted messages so a restarted server replays
// history in order. No-op without an archive.
func (l *MessageLog) Hydrate(ctx context.Context) error {
	if l.archive == nil {
		return nil
	}
	stored, err := l.archive.LoadMessages(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].CreatedAt.Before(stored[j].CreatedAt)
	})
	l.mu.Lock()
	l.entries = stored
	l.mu.Unlock()
	return nil
}

// Append validates, stamps and stores a new message. The durable record is
// written before the in-memory append so a storage failure leaves the log
// untouched (all-or-nothing).
func (l *MessageLog) Append(ctx context.Context, content, author string) (Message, error) {
	if err := validate.Struct(appendInput{Content: content, Author: author}); err != nil {
		return Message{}, appendValidationError(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// The clock is read under the lock so CreatedAt is non-decreasing in
	// arrival order and ties resolve by position in the slice.
	msg := Message{
		ID:        uuid.NewString(),
		Content:   content,
		Author:    author,
		CreatedAt: l.now().UTC(),
	}
	if l.archive != nil {
		if err := l.archive.SaveMessage(ctx, msg); err != nil {
			return Message{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	l.entries = append(l.entries, msg)
	return msg, nil
}

// List returns a snapshot copy of the full history, ascending by CreatedAt.
// Concurrent appends never tear or duplicate entries seen by the caller.
func (l *MessageLog) List() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make([]Message, len(l.entries))
	copy(snapshot, l.entries)
	return snapshot
}

// Len reports the current number of messages.
func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func appendValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return newValidationError(err.Error())
	}
	for _, fe := range fieldErrs {
		switch {
		case fe.Field() == "Content" && fe.Tag() == "required":
			return newValidationError("content must not be empty")
		case fe.Field() == "Content" && fe.Tag() == "max":
			return newValidationError(fmt.Sprintf("content exceeds %d characters", MaxContentLength))
		case fe.Field() == "Author":
			return newValidationError("author must not be empty")
		}
	}
	return newValidationError(err.Error())
}
