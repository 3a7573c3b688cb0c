// Package store defines the persistence ports used by the auth service and
// the HTTP handlers. The gormdb package implements them against Postgres;
// the memory package implements them for tests.
package store

import (
	"errors"

	"github.com/bridgeapp/bridge/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// UserStore persists credential records.
type UserStore interface {
	Create(user *models.User) error
	Save(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByGoogleID(googleID string) (*models.User, error)
}

// SummaryStore persists the per-user history of AI interactions.
type SummaryStore interface {
	Create(summary *models.Summary) error
	// ListByUser returns the owner's summaries, newest first.
	ListByUser(userID uint) ([]models.Summary, error)
	// DeleteOwned removes the summary iff it belongs to userID and returns
	// the deleted record. A missing or foreign record is ErrNotFound either
	// way, so callers cannot probe other owners' ids.
	DeleteOwned(userID, id uint) (*models.Summary, error)
}
