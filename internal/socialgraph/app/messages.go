package app

import (
	"context"
	"fmt"

	"github.com/averso/socialstore/internal/domain"
)

// SendMessage appends a message to the chat. Validation order: chat exists,
// sender exists, body non-empty, sender is a member of the chat.
func (s *Service) SendMessage(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, body string) error {
	err := s.update(ctx, "social.send_message", func(doc *domain.Document) error {
		chat := doc.ChatByID(chatID)
		if chat == nil {
			return fmt.Errorf("chat %q: %w", chatID, domain.ErrNotFound)
		}
		if doc.UserByID(senderID) == nil {
			return fmt.Errorf("sender %q: %w", senderID, domain.ErrNotFound)
		}
		if err := required("message body", body); err != nil {
			return err
		}
		if !chat.IsMember(senderID) {
			return fmt.Errorf("sender %q in chat %q: %w", senderID, chatID, domain.ErrNotMember)
		}

		chat.Messages = append(chat.Messages, domain.Message{
			SenderID: senderID,
			SentAt:   s.clock.Now().UTC(),
			Body:     body,
		})
		return nil
	})
	if err != nil {
		return err
	}

	messagesSentTotal.Add(ctx, 1)
	s.logger.InfoContext(ctx, "chat.message_sent", "chat_id", chatID.String(), "sender_id", senderID.String())
	return nil
}

// GetMessages returns the last min(count, len(messages)) messages of the
// chat in original chronological order.
func (s *Service) GetMessages(ctx context.Context, chatID domain.ChatID, count int) ([]domain.Message, error) {
	var messages []domain.Message

	err := s.view(ctx, "social.get_messages", func(doc *domain.Document) error {
		chat := doc.ChatByID(chatID)
		if chat == nil {
			return fmt.Errorf("chat %q: %w", chatID, domain.ErrNotFound)
		}
		if count < 0 {
			return fmt.Errorf("count: must not be negative: %w", domain.ErrInvalidInput)
		}

		n := count
		if n > len(chat.Messages) {
			n = len(chat.Messages)
		}
		messages = append([]domain.Message(nil), chat.Messages[len(chat.Messages)-n:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
