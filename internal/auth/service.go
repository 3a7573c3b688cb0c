package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bridgeapp/bridge/internal/apperr"
	"github.com/bridgeapp/bridge/internal/models"
	"github.com/bridgeapp/bridge/internal/store"
	"github.com/markbates/goth"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used for both passwords and security
// answers.
const bcryptCost = 10

// Service implements signup, login, and the security-question recovery flow
// over a UserStore. Passwords are compared case-sensitively, security
// answers case-insensitively (lower-cased before hashing).
type Service struct {
	users store.UserStore
}

func NewService(users store.UserStore) *Service {
	return &Service{users: users}
}

// Signup creates a password-based account. Email, password, and the security
// answer are required; name and question may be blank.
func (s *Service) Signup(name, email, password, question, answer string) (*models.User, error) {
	if email == "" || password == "" || answer == "" {
		return nil, apperr.New(apperr.KindValidation, "Missing required fields")
	}

	// Check-then-insert, like the signup it replaces; the partial unique
	// index on email backstops the race.
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, apperr.New(apperr.KindConflict, "Email in use")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	answerHash, err := bcrypt.GenerateFromPassword([]byte(strings.ToLower(answer)), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash security answer: %w", err)
	}

	user := &models.User{
		Email:              email,
		DisplayName:        name,
		PasswordHash:       string(passwordHash),
		SecurityQuestion:   question,
		SecurityAnswerHash: string(answerHash),
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login returns the user when email and password match a stored account.
func (s *Service) Login(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.New(apperr.KindAuth, "Invalid password")
	}

	return user, nil
}

// RecoveryQuestion returns the stored security question for the account.
// No session side effect.
func (s *Service) RecoveryQuestion(email string) (string, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return "", err
	}
	return user.SecurityQuestion, nil
}

// VerifyRecovery compares the answer, case-insensitively, against the stored
// hash. Verification is not linked to ResetPassword by any token; the two
// steps stand alone, as they always have.
func (s *Service) VerifyRecovery(email, answer string) error {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.SecurityAnswerHash), []byte(strings.ToLower(answer))) != nil {
		return apperr.New(apperr.KindAuth, "Incorrect answer")
	}
	return nil
}

// ResetPassword overwrites the account's password hash.
func (s *Service) ResetPassword(email, newPassword string) error {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.users.Save(user)
}

// UpsertGoogleUser resolves an OAuth callback to a local account: by Google
// subject first, then by email (linking the Google id onto an existing
// password account), creating a fresh account otherwise.
func (s *Service) UpsertGoogleUser(gothUser goth.User) (*models.User, error) {
	user, err := s.users.FindByGoogleID(gothUser.UserID)
	if err == nil {
		if gothUser.Name != "" && user.DisplayName != gothUser.Name {
			user.DisplayName = gothUser.Name
			if err := s.users.Save(user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user, err = s.users.FindByEmail(gothUser.Email)
	if err == nil {
		user.GoogleID = gothUser.UserID
		if user.DisplayName == "" {
			user.DisplayName = gothUser.Name
		}
		if err := s.users.Save(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Email:       gothUser.Email,
		DisplayName: gothUser.Name,
		GoogleID:    gothUser.UserID,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindByID loads a user by primary key.
func (s *Service) FindByID(id uint) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	return user, err
}
