package store

import (
	"errors"

	"github.com/voltaic-systems/authhub/internal/models"

	"gorm.io/gorm"
)

// User operations

// GetUserByID retrieves a user by primary key
func (s *Store) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail finds a user by email address
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertUserByEmail creates or updates a user keyed by email. Profile fields
// are refreshed on every call; the row id is stable across repeated logins.
func (s *Store) UpsertUserByEmail(
	tx *gorm.DB,
	email, name, avatarURL string,
) (*models.User, error) {
	db := s.conn(tx)

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		user.Name = name
		user.AvatarURL = avatarURL
		if err := db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Email:     email,
			Name:      name,
			AvatarURL: avatarURL,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	default:
		return nil, err
	}
}

// CountUsers returns the total number of users
func (s *Store) CountUsers() (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
