// Package adapter implements the persistence side of the social graph:
// a single JSON document on disk behind the app layer's DocumentStore
// interface.
package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/averso/socialstore/internal/domain"
)

// FileStore loads and persists the whole document as one JSON file.
// It performs no locking of its own; serialization is the app layer's job.
type FileStore struct {
	path   string
	clock  domain.Clock
	logger *slog.Logger
}

// NewFileStore creates a FileStore for the given file path.
func NewFileStore(path string, clock domain.Clock, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, clock: clock, logger: logger}
}

// Load reads and decodes the document file. On first run (file absent) the
// default document is seeded and persisted so the file exists from then on.
func (st *FileStore) Load(ctx context.Context) (*domain.Document, error) {
	raw, err := os.ReadFile(st.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := st.seed()
		if persistErr := st.Persist(ctx, doc); persistErr != nil {
			return nil, persistErr
		}
		st.logger.InfoContext(ctx, "store.seeded", "path", st.path)
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", st.path, errors.Join(err, domain.ErrStorage))
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", st.path, errors.Join(err, domain.ErrStorage))
	}
	return &doc, nil
}

// Persist writes the document to a temp file in the same directory and
// renames it over the target, so readers never observe a partial write.
func (st *FileStore) Persist(_ context.Context, doc *domain.Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", errors.Join(err, domain.ErrStorage))
	}

	dir := filepath.Dir(st.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(st.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, errors.Join(err, domain.ErrStorage))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, errors.Join(err, domain.ErrStorage))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, errors.Join(err, domain.ErrStorage))
	}
	if err := os.Rename(tmpName, st.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, errors.Join(err, domain.ErrStorage))
	}
	return nil
}

// seed builds the default first-run document: default limits, two users who
// are already friends, and one shared chat with a greeting from each.
func (st *FileStore) seed() *domain.Document {
	now := st.clock.Now().UTC()
	user0 := domain.GenerateUserID()
	user1 := domain.GenerateUserID()

	return &domain.Document{
		Info: domain.DefaultLimits(),
		Users: []domain.User{
			{
				ID:              user0,
				Name:            "User0",
				PasswordSecret:  "User0",
				CreatedAt:       now,
				Friends:         []domain.UserID{user1},
				PendingRequests: []domain.UserID{},
			},
			{
				ID:              user1,
				Name:            "User1",
				PasswordSecret:  "User1",
				CreatedAt:       now,
				Friends:         []domain.UserID{user0},
				PendingRequests: []domain.UserID{},
			},
		},
		Chats: []domain.Chat{
			{
				ID:      domain.GenerateChatID(),
				Name:    "User0 & User1",
				Members: []domain.UserID{user0, user1},
				Messages: []domain.Message{
					{SenderID: user0, SentAt: now, Body: "User0"},
					{SenderID: user1, SentAt: now.Add(time.Second), Body: "User1"},
				},
			},
		},
	}
}
