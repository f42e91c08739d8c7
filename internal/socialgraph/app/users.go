package app

import (
	"context"
	"fmt"

	"github.com/averso/socialstore/internal/domain"
)

// RegisterUser appends a new user with empty friends and pendingRequests
// sets and returns its generated ID. Validation order: name present, pass
// present, name length bounds, pass length bounds.
func (s *Service) RegisterUser(ctx context.Context, name, pass string) (domain.UserID, error) {
	var id domain.UserID

	err := s.update(ctx, "social.register_user", func(doc *domain.Document) error {
		if err := required("username", name); err != nil {
			return err
		}
		if err := required("password", pass); err != nil {
			return err
		}
		if err := lengthWithin("username", name, doc.Info.MinUsernameLength, doc.Info.MaxUsernameLength); err != nil {
			return err
		}
		if err := lengthWithin("password", pass, doc.Info.MinPasswordLength, doc.Info.MaxPasswordLength); err != nil {
			return err
		}

		id = domain.GenerateUserID()
		doc.Users = append(doc.Users, domain.User{
			ID:              id,
			Name:            name,
			PasswordSecret:  pass,
			CreatedAt:       s.clock.Now().UTC(),
			Friends:         []domain.UserID{},
			PendingRequests: []domain.UserID{},
		})
		return nil
	})
	if err != nil {
		return domain.UserID{}, err
	}

	usersRegisteredTotal.Add(ctx, 1)
	s.logger.InfoContext(ctx, "user.registered", "user_id", id.String(), "name", name)
	return id, nil
}

// TryLogin reports whether the given credentials match the first user with
// that name. An unknown name is a distinguished non-match, not an error.
func (s *Service) TryLogin(ctx context.Context, name, pass string) (bool, error) {
	var ok bool

	err := s.view(ctx, "social.try_login", func(doc *domain.Document) error {
		if err := required("username", name); err != nil {
			return err
		}
		if err := required("password", pass); err != nil {
			return err
		}

		user := doc.FirstUserByName(name)
		// Plain-value comparison; credential hardening is out of scope.
		ok = user != nil && user.PasswordSecret == pass
		return nil
	})
	if err != nil {
		return false, err
	}

	loginAttemptsTotal.Add(ctx, 1)
	return ok, nil
}

// ChangePassword overwrites the user's password secret.
func (s *Service) ChangePassword(ctx context.Context, userID domain.UserID, newPass string) error {
	err := s.update(ctx, "social.change_password", func(doc *domain.Document) error {
		user := doc.UserByID(userID)
		if user == nil {
			return fmt.Errorf("user %q: %w", userID, domain.ErrNotFound)
		}
		if err := lengthWithin("password", newPass, doc.Info.MinPasswordLength, doc.Info.MaxPasswordLength); err != nil {
			return err
		}

		user.PasswordSecret = newPass
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user.password_changed", "user_id", userID.String())
	return nil
}
