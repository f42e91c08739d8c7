package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/averso/socialstore/internal/domain"
)

// pair loads both users from the document, in sender/receiver order.
func pair(doc *domain.Document, senderID, receiverID domain.UserID) (sender, receiver *domain.User, err error) {
	sender = doc.UserByID(senderID)
	if sender == nil {
		return nil, nil, fmt.Errorf("user %q: %w", senderID, domain.ErrNotFound)
	}
	receiver = doc.UserByID(receiverID)
	if receiver == nil {
		return nil, nil, fmt.Errorf("user %q: %w", receiverID, domain.ErrNotFound)
	}
	return sender, receiver, nil
}

// SendFriendRequest records a friend request from sender to receiver.
// If the receiver had already requested the sender, the handshake completes
// immediately (auto-accept) instead of creating a second pending entry.
func (s *Service) SendFriendRequest(ctx context.Context, senderID, receiverID domain.UserID) error {
	var state domain.PairState

	err := s.update(ctx, "social.send_friend_request", func(doc *domain.Document) error {
		sender, receiver, err := pair(doc, senderID, receiverID)
		if err != nil {
			return err
		}
		if senderID == receiverID {
			return domain.ErrSelfRequest
		}

		state, err = domain.RequestFriendship(sender, receiver)
		return err
	})
	if err != nil {
		return err
	}

	friendRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("transition", "request")))
	s.logger.InfoContext(ctx, "friendship.requested",
		"sender_id", senderID.String(),
		"receiver_id", receiverID.String(),
		"state", state.String(),
	)
	return nil
}

// AcceptFriendRequest completes the handshake for a pending request from
// sender to receiver, making the pair friends.
func (s *Service) AcceptFriendRequest(ctx context.Context, senderID, receiverID domain.UserID) error {
	err := s.update(ctx, "social.accept_friend_request", func(doc *domain.Document) error {
		sender, receiver, err := pair(doc, senderID, receiverID)
		if err != nil {
			return err
		}

		_, err = domain.AcceptFriendship(sender, receiver)
		return err
	})
	if err != nil {
		return err
	}

	friendRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("transition", "accept")))
	s.logger.InfoContext(ctx, "friendship.accepted",
		"sender_id", senderID.String(),
		"receiver_id", receiverID.String(),
	)
	return nil
}

// DenyFriendRequest drops a pending request from sender to receiver,
// returning the pair to unrelated.
func (s *Service) DenyFriendRequest(ctx context.Context, senderID, receiverID domain.UserID) error {
	err := s.update(ctx, "social.deny_friend_request", func(doc *domain.Document) error {
		sender, receiver, err := pair(doc, senderID, receiverID)
		if err != nil {
			return err
		}

		_, err = domain.DenyFriendship(sender, receiver)
		return err
	})
	if err != nil {
		return err
	}

	friendRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("transition", "deny")))
	s.logger.InfoContext(ctx, "friendship.denied",
		"sender_id", senderID.String(),
		"receiver_id", receiverID.String(),
	)
	return nil
}

// RemoveFriend removes each user from the other's friends set. Idempotent:
// removing a pair that were never friends is a successful no-op.
func (s *Service) RemoveFriend(ctx context.Context, userA, userB domain.UserID) error {
	err := s.update(ctx, "social.remove_friend", func(doc *domain.Document) error {
		a, b, err := pair(doc, userA, userB)
		if err != nil {
			return err
		}

		domain.EndFriendship(a, b)
		return nil
	})
	if err != nil {
		return err
	}

	friendRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("transition", "remove")))
	s.logger.InfoContext(ctx, "friendship.removed",
		"user_a", userA.String(),
		"user_b", userB.String(),
	)
	return nil
}
