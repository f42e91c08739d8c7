package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averso/socialstore/internal/domain"
)

func TestCreateChat(t *testing.T) {
	t.Run("valid chat is appended empty of messages", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")
		b := h.registerUser(t, "User1")

		id, err := h.svc.CreateChat(context.Background(), "User0 & User1", []domain.UserID{a, b})

		require.NoError(t, err)
		chat := h.store.committed.ChatByID(id)
		require.NotNil(t, chat)
		assert.Equal(t, "User0 & User1", chat.Name)
		assert.Equal(t, []domain.UserID{a, b}, chat.Members)
		assert.Empty(t, chat.Messages)
	})

	t.Run("unknown member rejected", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")

		_, err := h.svc.CreateChat(context.Background(), "orphans", []domain.UserID{a, domain.GenerateUserID()})

		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, h.store.committed.Chats)
	})

	t.Run("duplicate member listed twice rejected", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")

		_, err := h.svc.CreateChat(context.Background(), "echo chamber", []domain.UserID{a, a})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty member list rejected before name length", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.svc.CreateChat(context.Background(), "x", nil)

		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "members")
	})

	t.Run("member count below minimum rejected", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")

		_, err := h.svc.CreateChat(context.Background(), "solo", []domain.UserID{a})

		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "below minimum")
	})

	t.Run("member count above maximum rejected", func(t *testing.T) {
		h := newTestHarness(t)
		members := make([]domain.UserID, 0, 101)
		for i := 0; i < 101; i++ {
			members = append(members, h.registerUser(t, fmt.Sprintf("User%d", i)))
		}

		_, err := h.svc.CreateChat(context.Background(), "everyone", members)

		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "above maximum")
	})
}

func TestAddUserToChat(t *testing.T) {
	t.Run("appends a new member", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")
		b := h.registerUser(t, "User1")
		c := h.registerUser(t, "User2")
		chatID := h.createChat(t, "trio", a, b)

		require.NoError(t, h.svc.AddUserToChat(context.Background(), chatID, c))

		chat := h.store.committed.ChatByID(chatID)
		assert.Equal(t, []domain.UserID{a, b, c}, chat.Members)
	})

	t.Run("existing member rejected", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")
		b := h.registerUser(t, "User1")
		chatID := h.createChat(t, "pair", a, b)

		err := h.svc.AddUserToChat(context.Background(), chatID, a)

		require.ErrorIs(t, err, domain.ErrAlreadyMember)
		assert.Len(t, h.store.committed.ChatByID(chatID).Members, 2)
	})

	t.Run("unknown chat", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")

		err := h.svc.AddUserToChat(context.Background(), domain.GenerateChatID(), a)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")
		b := h.registerUser(t, "User1")
		chatID := h.createChat(t, "pair", a, b)

		err := h.svc.AddUserToChat(context.Background(), chatID, domain.GenerateUserID())

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRemoveUserFromChat(t *testing.T) {
	t.Run("removes the member, messages survive", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")
		b := h.registerUser(t, "User1")
		chatID := h.createChat(t, "pair", a, b)
		require.NoError(t, h.svc.SendMessage(context.Background(), chatID, a, "still here"))

		require.NoError(t, h.svc.RemoveUserFromChat(context.Background(), chatID, a))

		chat := h.store.committed.ChatByID(chatID)
		assert.Equal(t, []domain.UserID{b}, chat.Members)
		require.Len(t, chat.Messages, 1)
		assert.Equal(t, a, chat.Messages[0].SenderID)
	})

	t.Run("non-member rejected", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")
		b := h.registerUser(t, "User1")
		c := h.registerUser(t, "User2")
		chatID := h.createChat(t, "pair", a, b)

		err := h.svc.RemoveUserFromChat(context.Background(), chatID, c)

		assert.ErrorIs(t, err, domain.ErrNotMember)
	})

	t.Run("unknown chat", func(t *testing.T) {
		h := newTestHarness(t)
		a := h.registerUser(t, "User0")

		err := h.svc.RemoveUserFromChat(context.Background(), domain.GenerateChatID(), a)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
