package app

import (
	"context"
	"fmt"

	"github.com/averso/socialstore/internal/domain"
)

// CreateChat appends a new chat with the given members and no messages and
// returns its generated ID. Validation order: name present, members present,
// name length bounds, member count bounds, every member exists, no duplicate
// members.
func (s *Service) CreateChat(ctx context.Context, name string, members []domain.UserID) (domain.ChatID, error) {
	var id domain.ChatID

	err := s.update(ctx, "social.create_chat", func(doc *domain.Document) error {
		if err := required("chat name", name); err != nil {
			return err
		}
		if len(members) == 0 {
			return fmt.Errorf("members: must not be empty: %w", domain.ErrInvalidInput)
		}
		if err := lengthWithin("chat name", name, doc.Info.MinChatNameLength, doc.Info.MaxChatNameLength); err != nil {
			return err
		}
		if len(members) < doc.Info.MinChatUserCount {
			return fmt.Errorf("members: count %d below minimum %d: %w", len(members), doc.Info.MinChatUserCount, domain.ErrInvalidInput)
		}
		if len(members) > doc.Info.MaxChatUserCount {
			return fmt.Errorf("members: count %d above maximum %d: %w", len(members), doc.Info.MaxChatUserCount, domain.ErrInvalidInput)
		}

		seen := make(map[domain.UserID]struct{}, len(members))
		for _, m := range members {
			if doc.UserByID(m) == nil {
				return fmt.Errorf("member %q: %w", m, domain.ErrNotFound)
			}
			if _, dup := seen[m]; dup {
				return fmt.Errorf("member %q listed twice: %w", m, domain.ErrInvalidInput)
			}
			seen[m] = struct{}{}
		}

		id = domain.GenerateChatID()
		doc.Chats = append(doc.Chats, domain.Chat{
			ID:       id,
			Name:     name,
			Members:  append([]domain.UserID(nil), members...),
			Messages: []domain.Message{},
		})
		return nil
	})
	if err != nil {
		return domain.ChatID{}, err
	}

	chatsCreatedTotal.Add(ctx, 1)
	s.logger.InfoContext(ctx, "chat.created", "chat_id", id.String(), "members", len(members))
	return id, nil
}

// AddUserToChat appends the user to the chat's member sequence.
// Duplicate membership is rejected: member lists are ID sets, and a second
// entry for the same user would corrupt removal semantics.
func (s *Service) AddUserToChat(ctx context.Context, chatID domain.ChatID, userID domain.UserID) error {
	err := s.update(ctx, "social.add_chat_member", func(doc *domain.Document) error {
		chat := doc.ChatByID(chatID)
		if chat == nil {
			return fmt.Errorf("chat %q: %w", chatID, domain.ErrNotFound)
		}
		if doc.UserByID(userID) == nil {
			return fmt.Errorf("user %q: %w", userID, domain.ErrNotFound)
		}
		if chat.IsMember(userID) {
			return fmt.Errorf("user %q in chat %q: %w", userID, chatID, domain.ErrAlreadyMember)
		}

		chat.Members = append(chat.Members, userID)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "chat.member_added", "chat_id", chatID.String(), "user_id", userID.String())
	return nil
}

// RemoveUserFromChat removes one occurrence of the user from the chat's
// member sequence. The user's past messages stay in the chat.
func (s *Service) RemoveUserFromChat(ctx context.Context, chatID domain.ChatID, userID domain.UserID) error {
	err := s.update(ctx, "social.remove_chat_member", func(doc *domain.Document) error {
		chat := doc.ChatByID(chatID)
		if chat == nil {
			return fmt.Errorf("chat %q: %w", chatID, domain.ErrNotFound)
		}
		if doc.UserByID(userID) == nil {
			return fmt.Errorf("user %q: %w", userID, domain.ErrNotFound)
		}

		for i, m := range chat.Members {
			if m == userID {
				chat.Members = append(chat.Members[:i], chat.Members[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("user %q in chat %q: %w", userID, chatID, domain.ErrNotMember)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "chat.member_removed", "chat_id", chatID.String(), "user_id", userID.String())
	return nil
}
