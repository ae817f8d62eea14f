package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/voltaic-systems/authhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestStoreWithSQLite tests store operations with SQLite
func TestStoreWithSQLite(t *testing.T) {
	testBasicOperations(t, "sqlite", nil)
}

// TestStoreWithPostgres tests store operations with PostgreSQL
func TestStoreWithPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Skipping PostgreSQL test: Docker not available (panic: %v)", r)
		}
	}()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("Skipping PostgreSQL test: Docker not available (%v)", err)
		return
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	testBasicOperations(t, "postgres", pgContainer)
}

// createFreshStore creates a new store instance for test isolation.
// SQLite gets a fresh :memory: database per call; PostgreSQL gets a
// uniquely-named database in the shared container.
func createFreshStore(t *testing.T, driver string, pgContainer *postgres.PostgresContainer) *Store {
	t.Helper()

	var dsn string
	switch driver {
	case "sqlite":
		dsn = ":memory:"
	case "postgres":
		dbName := "test_" + uuid.New().String()[:8]

		ctx := context.Background()
		createDBCmd := fmt.Sprintf("CREATE DATABASE %s", dbName)
		_, _, err := pgContainer.Exec(
			ctx,
			[]string{"psql", "-U", "testuser", "-d", "testdb", "-c", createDBCmd},
		)
		require.NoError(t, err)

		host, err := pgContainer.Host(ctx)
		require.NoError(t, err)
		port, err := pgContainer.MappedPort(ctx, "5432")
		require.NoError(t, err)
		dsn = fmt.Sprintf(
			"host=%s port=%s user=testuser password=testpass dbname=%s sslmode=disable",
			host, port.Port(), dbName,
		)

		t.Cleanup(func() {
			dropDBCmd := fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)
			_, _, _ = pgContainer.Exec(
				context.Background(),
				[]string{"psql", "-U", "testuser", "-d", "testdb", "-c", dropDBCmd},
			)
		})
	default:
		t.Fatalf("unsupported driver: %s", driver)
	}

	store, err := New(driver, dsn, "test-password")
	require.NoError(t, err)
	require.NotNil(t, store)

	return store
}

// createTestConnection inserts an active connection for the seeded provider
func createTestConnection(t *testing.T, store *Store, userID int64, externalID string) *models.Connection {
	t.Helper()

	provider, err := store.GetProviderByName("google")
	require.NoError(t, err)

	conn := &models.Connection{
		UserID:      userID,
		ProviderID:  provider.ID,
		ExternalID:  externalID,
		AccessToken: "access-" + externalID,
		Scopes:      models.StringList{"email"},
		Status:      models.ConnectionStatusActive,
	}
	require.NoError(t, store.CreateConnection(nil, conn))
	return conn
}

func testBasicOperations(t *testing.T, driver string, pgContainer *postgres.PostgresContainer) {
	t.Run("SeededRegistry", func(t *testing.T) {
		store := createFreshStore(t, driver, pgContainer)

		provider, err := store.GetProviderByName("google")
		require.NoError(t, err)
		assert.Equal(t, "Google Workspace", provider.DisplayName)
		assert.True(t, provider.Enabled)
		assert.Len(t, provider.Scopes, 4)
		assert.Contains(t, provider.OAuthConfig.AuthURL, "accounts.google.com")

		admin, err := store.GetAdminConfig()
		require.NoError(t, err)
		assert.Equal(t, "admin", admin.Username)
		assert.NotEmpty(t, admin.PasswordHash)

		apps, err := store.ListActiveInternalApps()
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, "magnetiq", apps[0].Name)

		// The typed manifest column round-trips through the JSON column
		assert.Equal(t, "1.0", apps[0].ManifestData.PcarpVersion)
		assert.Equal(t, "magnetiq", apps[0].ManifestData.App["name"])
	})

	t.Run("UpsertUserByEmail", func(t *testing.T) {
		store := createFreshStore(t, driver, pgContainer)

		first, err := store.UpsertUserByEmail(nil, "user@example.com", "Test User", "")
		require.NoError(t, err)
		require.NotZero(t, first.ID)

		// Second upsert reuses the row and refreshes the profile
		second, err := store.UpsertUserByEmail(nil, "user@example.com", "Renamed User", "https://img")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Renamed User", second.Name)
		assert.Equal(t, "https://img", second.AvatarURL)

		count, err := store.CountUsers()
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ConnectionIdentityUnique", func(t *testing.T) {
		store := createFreshStore(t, driver, pgContainer)

		user, err := store.UpsertUserByEmail(nil, "user@example.com", "Test User", "")
		require.NoError(t, err)
		conn := createTestConnection(t, store, user.ID, "google_123456")

		dup := &models.Connection{
			UserID:      conn.UserID,
			ProviderID:  conn.ProviderID,
			ExternalID:  conn.ExternalID,
			AccessToken: "other",
			Status:      models.ConnectionStatusActive,
		}
		err = store.CreateConnection(nil, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

		found, err := store.GetConnectionByIdentity(nil, user.ID, conn.ProviderID, "google_123456")
		require.NoError(t, err)
		assert.Equal(t, conn.ID, found.ID)
	})

	t.Run("SoftDeleteConnection", func(t *testing.T) {
		store := createFreshStore(t, driver, pgContainer)

		user, err := store.UpsertUserByEmail(nil, "user@example.com", "Test User", "")
		require.NoError(t, err)
		conn := createTestConnection(t, store, user.ID, "google_123456")

		transitioned, err := store.SoftDeleteConnection(nil, conn.ID)
		require.NoError(t, err)
		assert.True(t, transitioned)

		// Second delete is a no-op
		transitioned, err = store.SoftDeleteConnection(nil, conn.ID)
		require.NoError(t, err)
		assert.False(t, transitioned)

		// Row survives with deleted status and still lists for the owner
		listed, err := store.ListConnectionsByUserID(user.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, models.ConnectionStatusDeleted, listed[0].Status)

		_, err = store.GetActiveConnection(user.ID, conn.ProviderID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("DeduplicatedAppListing", func(t *testing.T) {
		store := createFreshStore(t, driver, pgContainer)

		// Register the same app twice plus one distinct app
		for i := 0; i < 2; i++ {
			app := &models.InternalApp{
				Name:         "magnetiq",
				DisplayName:  "Magnetiq CMS",
				ManifestData: models.Manifest{PcarpVersion: "1.0"},
				Status:       models.AppStatusActive,
			}
			require.NoError(t, store.CreateInternalApp(nil, app))
		}
		other := &models.InternalApp{
			Name:         "crm",
			DisplayName:  "Sales CRM",
			ManifestData: models.Manifest{PcarpVersion: "1.0"},
			Status:       models.AppStatusActive,
		}
		require.NoError(t, store.CreateInternalApp(nil, other))

		all, err := store.CountInternalApps()
		require.NoError(t, err)
		assert.Equal(t, int64(4), all) // seeded magnetiq + 2 dupes + crm

		deduped, err := store.ListInternalAppsDeduplicated()
		require.NoError(t, err)
		require.Len(t, deduped, 2)

		// Lowest id of each (name, display_name) group wins; seeded magnetiq
		// has id 1 and comes first in the id-ordered listing
		assert.Equal(t, "magnetiq", deduped[0].Name)
		assert.Equal(t, int64(1), deduped[0].ID)
		assert.Equal(t, "crm", deduped[1].Name)
	})

	t.Run("MappingPartialUpdate", func(t *testing.T) {
		store := createFreshStore(t, driver, pgContainer)

		apps, err := store.ListActiveInternalApps()
		require.NoError(t, err)
		mapping := &models.AppMapping{
			ExternalService: "gmail",
			InternalAppID:   apps[0].ID,
			MappingConfig:   models.JSONMap{"folder": "INBOX"},
			Status:          models.MappingStatusActive,
		}
		require.NoError(t, store.CreateMapping(nil, mapping))

		// Empty update touches nothing, updated_at included
		before, err := store.GetMappingByID(nil, mapping.ID)
		require.NoError(t, err)
		err = store.UpdateMappingPartial(nil, mapping.ID, MappingUpdate{})
		assert.ErrorIs(t, err, ErrEmptyUpdate)
		after, err := store.GetMappingByID(nil, mapping.ID)
		require.NoError(t, err)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)

		// Status-only update leaves the config alone
		inactive := models.MappingStatusInactive
		err = store.UpdateMappingPartial(nil, mapping.ID, MappingUpdate{Status: &inactive})
		require.NoError(t, err)
		updated, err := store.GetMappingByID(nil, mapping.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MappingStatusInactive, updated.Status)
		assert.Equal(t, "INBOX", updated.MappingConfig["folder"])

		// Unknown id reports not found
		err = store.UpdateMappingPartial(nil, 9999, MappingUpdate{Status: &inactive})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		deleted, err := store.DeleteMapping(nil, mapping.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		deleted, err = store.DeleteMapping(nil, mapping.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("AuditTrail", func(t *testing.T) {
		store := createFreshStore(t, driver, pgContainer)

		user, err := store.UpsertUserByEmail(nil, "user@example.com", "Test User", "")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			entry := &models.AuditLog{
				UserID:    &user.ID,
				Action:    models.ActionUserLogin,
				Resource:  "provider:google",
				CreatedAt: time.Now(),
			}
			require.NoError(t, store.CreateAuditLog(nil, entry))
		}
		old := &models.AuditLog{
			Action:    models.ActionAppRegistered,
			Resource:  "app:magnetiq",
			CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
		}
		require.NoError(t, store.CreateAuditLog(nil, old))

		// Action filter plus the joined actor email
		records, pagination, err := store.GetAuditLogsPaginated(
			NewPaginationParams(1, 10, ""),
			AuditLogFilters{Action: models.ActionUserLogin},
		)
		require.NoError(t, err)
		assert.Len(t, records, 3)
		assert.Equal(t, int64(3), pagination.Total)
		assert.Equal(t, "user@example.com", records[0].UserEmail)

		// User filter
		records, _, err = store.GetAuditLogsPaginated(
			NewPaginationParams(1, 10, ""),
			AuditLogFilters{UserID: &user.ID},
		)
		require.NoError(t, err)
		assert.Len(t, records, 3)

		stats, err := store.GetAuditLogStats()
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.TotalEvents)
		assert.Equal(t, int64(3), stats.Last24Hours)
		assert.Equal(t, int64(3), stats.EventsByAction[models.ActionUserLogin])

		// Retention removes only rows older than the cutoff
		deleted, err := store.DeleteOldAuditLogs(time.Now().Add(-7 * 24 * time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		remaining, err := store.CountAuditLogs()
		require.NoError(t, err)
		assert.Equal(t, int64(3), remaining)
	})

	t.Run("TransactionRollback", func(t *testing.T) {
		store := createFreshStore(t, driver, pgContainer)

		err := store.WithTx(func(tx *gorm.DB) error {
			if _, err := store.UpsertUserByEmail(tx, "rollback@example.com", "X", ""); err != nil {
				return err
			}
			return fmt.Errorf("boom")
		})
		require.Error(t, err)

		_, err = store.GetUserByEmail("rollback@example.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
