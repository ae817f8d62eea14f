package services

import (
	"errors"

	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"

	"gorm.io/gorm"
)

// UserService reads user rows. Creation happens only through the OAuth
// callback path (AuthService), which upserts by email.
type UserService struct {
	store *store.Store
}

// NewUserService creates a new user service
func NewUserService(s *store.Store) *UserService {
	return &UserService{store: s}
}

// GetByID retrieves a user by id
func (s *UserService) GetByID(id int64) (*models.User, error) {
	user, err := s.store.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
