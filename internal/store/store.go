package store

import (
	"crypto/rand"
	"encoding/base64"
	"log"

	"github.com/voltaic-systems/authhub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

// New opens the database, runs migrations and seeds the default registry
// rows. adminPassword is hashed into the singleton admin credential; when
// empty a random password is generated and logged once.
func New(driver, dsn, adminPassword string) (*Store, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Connection{},
		&models.AdminConfig{},
		&models.InternalApp{},
		&models.AppMapping{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	store := &Store{db: db}

	if err := store.seedData(adminPassword); err != nil {
		log.Printf("Warning: failed to seed data: %v", err)
	}

	return store, nil
}

// generateRandomPassword generates a random password of specified length
func generateRandomPassword(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	// Use base64 URL encoding to get a safe, printable password
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

func (s *Store) seedData(adminPassword string) error {
	// Seed the Google provider if the registry is empty
	var providerCount int64
	s.db.Model(&models.Provider{}).Count(&providerCount)
	if providerCount == 0 {
		provider := &models.Provider{
			Name:        "google",
			DisplayName: "Google Workspace",
			OAuthConfig: models.OAuthEndpoints{
				AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
			Scopes: models.StringList{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/gmail.readonly",
				"https://www.googleapis.com/auth/calendar",
			},
			Enabled: true,
		}
		if err := s.db.Create(provider).Error; err != nil {
			return err
		}
		log.Printf("Seeded provider: %s", provider.Name)
	}

	// Seed the singleton admin credential
	var adminCount int64
	s.db.Model(&models.AdminConfig{}).Count(&adminCount)
	if adminCount == 0 {
		password := adminPassword
		if password == "" {
			generated, err := generateRandomPassword(16)
			if err != nil {
				return err
			}
			password = generated
			log.Printf("Generated admin password: %s", password)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &models.AdminConfig{
			ID:           models.AdminConfigID,
			Username:     "admin",
			PasswordHash: string(hash),
		}
		if err := s.db.Create(admin).Error; err != nil {
			return err
		}
		log.Printf("Created admin credential (username: admin)")
	}

	// Seed the default internal app
	var appCount int64
	s.db.Model(&models.InternalApp{}).Count(&appCount)
	if appCount == 0 {
		app := &models.InternalApp{
			Name:        "magnetiq",
			DisplayName: "Magnetiq CMS",
			Description: "Content management system with integrated communication features",
			APIEndpoints: models.JSONMap{
				"base_url": "http://localhost:8000/api/v1",
			},
			ManifestData: models.Manifest{
				PcarpVersion: "1.0",
				App: models.JSONMap{
					"name":         "magnetiq",
					"display_name": "Magnetiq CMS",
				},
				Capabilities: models.JSONMap{
					"services": []string{"email", "calendar"},
				},
			},
			Status: models.AppStatusActive,
		}
		if err := s.db.Create(app).Error; err != nil {
			return err
		}
		log.Printf("Seeded internal app: %s", app.Name)
	}

	return nil
}

// WithTx runs fn inside a single database transaction. Mutations and their
// audit rows go through here so they commit or fail together.
func (s *Store) WithTx(fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(fn)
}

// conn returns the transaction handle when one is passed, the root handle
// otherwise. Store methods accept a nil tx for non-transactional use.
func (s *Store) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// Health checks the database connection
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM database connection (for transactions)
func (s *Store) DB() *gorm.DB {
	return s.db
}
