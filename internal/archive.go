package internal

import (
	"context"

	"pollchat/internal/storage"
)

// sqliteArchive adapts the SQLite store to the MessageArchive contract.
type sqliteArchive struct {
	store *storage.Store
}

// NewSQLiteArchive wraps a store so the message log can persist through it.
func NewSQLiteArchive(store *storage.Store) MessageArchive {
	return &sqliteArchive{store: store}
}

func (a *sqliteArchive) SaveMessage(ctx context.Context, msg Message) error {
	return a.store.SaveMessage(ctx, storage.Message{
		ID:        msg.ID,
		Author:    msg.Author,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	})
}

func (a *sqliteArchive) LoadMessages(ctx context.Context) ([]Message, error) {
	stored, err := a.store.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(stored))
	for _, row := range stored {
		messages = append(messages, Message{
			ID:        row.ID,
			Author:    row.Author,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}
	return messages, nil
}
