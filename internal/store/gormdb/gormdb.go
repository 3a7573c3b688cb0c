// Package gormdb implements the store ports on GORM over Postgres.
package gormdb

import (
	"errors"

	"github.com/bridgeapp/bridge/internal/models"
	"github.com/bridgeapp/bridge/internal/store"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *UserStore) Save(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *UserStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) FindByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

type SummaryStore struct {
	db *gorm.DB
}

func NewSummaryStore(db *gorm.DB) *SummaryStore {
	return &SummaryStore{db: db}
}

func (s *SummaryStore) Create(summary *models.Summary) error {
	return s.db.Create(summary).Error
}

func (s *SummaryStore) ListByUser(userID uint) ([]models.Summary, error) {
	var summaries []models.Summary
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *SummaryStore) DeleteOwned(userID, id uint) (*models.Summary, error) {
	var summary models.Summary
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&summary).Error; err != nil {
		return nil, translate(err)
	}
	if err := s.db.Delete(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
