package services

import (
	"context"
	"testing"

	"github.com/voltaic-systems/authhub/internal/auth"
	"github.com/voltaic-systems/authhub/internal/cache"
	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"
	"github.com/voltaic-systems/authhub/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminPassword = "test-password"

type testEnv struct {
	store       *store.Store
	tokens      *token.Manager
	audit       *AuditService
	auth        *AuthService
	users       *UserService
	providers   *ProviderService
	connections *ConnectionService
	admin       *AdminService
	apps        *AppService
	mappings    *MappingService
	data        *DataService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.New("sqlite", ":memory:", testAdminPassword)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rec := metrics.NewNoopMetrics()
	tokens := token.NewManager("test-secret", 0, 0)
	audit := NewAuditService(db, rec)

	exchangers := map[string]auth.Exchanger{
		"google": auth.NewMockExchanger("google", "", nil),
	}

	providers := NewProviderService(db,
		cache.NewMemoryCache[[]models.Provider](),
		cache.NewMemoryCache[models.Provider](), 0)
	connections := NewConnectionService(db, audit, rec)

	return &testEnv{
		store:       db,
		tokens:      tokens,
		audit:       audit,
		auth:        NewAuthService(db, tokens, exchangers, audit, rec),
		users:       NewUserService(db),
		providers:   providers,
		connections: connections,
		admin:       NewAdminService(db, audit),
		apps:        NewAppService(db, audit, rec),
		mappings:    NewMappingService(db, audit, rec),
		data:        NewDataService(providers, connections, rec),
	}
}

// auditCount counts trail entries for one action
func auditCount(t *testing.T, env *testEnv, action string) int64 {
	t.Helper()
	_, pagination, err := env.audit.List(
		store.NewPaginationParams(1, 1, ""),
		store.AuditLogFilters{Action: action},
	)
	require.NoError(t, err)
	return pagination.Total
}

func login(t *testing.T, env *testEnv) *CallbackResult {
	t.Helper()
	result, err := env.auth.HandleCallback(context.Background(), "google", "test-code", RequestMeta{
		IPAddress: "127.0.0.1",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	return result
}

func TestAuthorizeURL(t *testing.T) {
	env := newTestEnv(t)

	url, state, err := env.auth.AuthorizeURL("google")
	require.NoError(t, err)
	assert.Contains(t, url, "state="+state)
	assert.NotEmpty(t, state)

	// Fresh state per request
	_, state2, err := env.auth.AuthorizeURL("google")
	require.NoError(t, err)
	assert.NotEqual(t, state, state2)

	_, _, err = env.auth.AuthorizeURL("github")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCallbackCreatesUserAndConnection(t *testing.T) {
	env := newTestEnv(t)

	result := login(t, env)

	assert.Equal(t, auth.MockEmail, result.User.Email)
	assert.Equal(t, auth.MockName, result.User.Name)
	require.NotNil(t, result.Connection)
	assert.Equal(t, auth.MockExternalID, result.Connection.ExternalID)
	assert.Equal(t, models.ConnectionStatusActive, result.Connection.Status)

	// The issued token identifies the user
	userID, err := env.tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
	assert.Equal(t, int(env.tokens.LoginTTL().Seconds()), result.ExpiresIn)

	// Both trail entries committed with the mutation
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionUserLogin))
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionConnectionCreate))
}

func TestCallbackSecondLoginReusesUser(t *testing.T) {
	env := newTestEnv(t)

	first := login(t, env)
	second := login(t, env)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, first.Connection.ID, second.Connection.ID)

	users, err := env.store.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)

	// Every login is audited; the connection creation only once
	assert.Equal(t, int64(2), auditCount(t, env, models.ActionUserLogin))
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionConnectionCreate))
}

func TestCallbackRevivesDeletedConnection(t *testing.T) {
	env := newTestEnv(t)

	first := login(t, env)
	require.NoError(t, env.connections.Disconnect(first.User.ID, first.Connection.ID, RequestMeta{}))

	again := login(t, env)
	assert.Equal(t, first.Connection.ID, again.Connection.ID)
	assert.Equal(t, models.ConnectionStatusActive, again.Connection.Status)
}

func TestCallbackValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.HandleCallback(context.Background(), "github", "code", RequestMeta{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.auth.HandleCallback(context.Background(), "google", "", RequestMeta{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	result := login(t, env)

	require.NoError(t, env.connections.Disconnect(result.User.ID, result.Connection.ID, RequestMeta{}))
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionConnectionDelete))

	// Second disconnect succeeds without a second trail entry
	require.NoError(t, env.connections.Disconnect(result.User.ID, result.Connection.ID, RequestMeta{}))
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionConnectionDelete))

	listed, err := env.connections.List(result.User.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, models.ConnectionStatusDeleted, listed[0].Status)
}

func TestDisconnectDoesNotLeakExistence(t *testing.T) {
	env := newTestEnv(t)
	result := login(t, env)

	// Unknown id and someone else's connection answer identically
	err := env.connections.Disconnect(result.User.ID, 9999, RequestMeta{})
	assert.ErrorIs(t, err, ErrNotFound)

	other, err := env.store.UpsertUserByEmail(nil, "other@example.com", "Other", "")
	require.NoError(t, err)
	err = env.connections.Disconnect(other.ID, result.Connection.ID, RequestMeta{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestRefresh(t *testing.T) {
	env := newTestEnv(t)
	result := login(t, env)

	conn, err := env.connections.RequestRefresh(result.User.ID, result.Connection.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Connection.ID, conn.ID)

	require.NoError(t, env.connections.Disconnect(result.User.ID, result.Connection.ID, RequestMeta{}))
	_, err = env.connections.RequestRefresh(result.User.ID, result.Connection.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetConnectionKeepsDeletedReadable(t *testing.T) {
	env := newTestEnv(t)
	result := login(t, env)

	conn, err := env.connections.Get(result.User.ID, result.Connection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusActive, conn.Status)

	require.NoError(t, env.connections.Disconnect(result.User.ID, result.Connection.ID, RequestMeta{}))

	// The soft-deleted row stays readable for its owner
	conn, err = env.connections.Get(result.User.ID, result.Connection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusDeleted, conn.Status)

	// Anyone else sees nothing
	_, err = env.connections.Get(result.User.ID+1, result.Connection.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProviderListForUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := login(t, env)

	annotated, err := env.providers.ListForUser(ctx, result.User.ID)
	require.NoError(t, err)
	require.Len(t, annotated, 1)
	assert.Equal(t, "google", annotated[0].Name)
	assert.True(t, annotated[0].Connected)

	// A caller without connections sees the registry unlinked
	annotated, err = env.providers.ListForUser(ctx, result.User.ID+100)
	require.NoError(t, err)
	require.Len(t, annotated, 1)
	assert.False(t, annotated[0].Connected)

	// Disconnecting drops the flag
	require.NoError(t, env.connections.Disconnect(result.User.ID, result.Connection.ID, RequestMeta{}))
	annotated, err = env.providers.ListForUser(ctx, result.User.ID)
	require.NoError(t, err)
	assert.False(t, annotated[0].Connected)
}

func TestProviderListCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	providers, err := env.providers.List(ctx)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "google", providers[0].Name)

	provider, err := env.providers.Get(ctx, providers[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Google Workspace", provider.DisplayName)

	_, err = env.providers.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterAppAndDeduplicatedListing(t *testing.T) {
	env := newTestEnv(t)

	// Re-registering the seeded app creates a second row
	registered, err := env.apps.Register(RegisterAppInput{
		Name:        "magnetiq",
		DisplayName: "Magnetiq CMS",
		Manifest:    models.Manifest{PcarpVersion: "1.0"},
	}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "1.0", registered.ManifestData.PcarpVersion)

	total, err := env.store.CountInternalApps()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	deduped, err := env.apps.ListDeduplicated()
	require.NoError(t, err)
	require.Len(t, deduped, 1)
	assert.Equal(t, int64(1), deduped[0].ID)

	assert.Equal(t, int64(1), auditCount(t, env, models.ActionAppRegistered))
}

func TestRegisterAppValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.apps.Register(RegisterAppInput{
		DisplayName: "No Name",
		Manifest:    models.Manifest{PcarpVersion: "1.0"},
	}, RequestMeta{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.apps.Register(RegisterAppInput{
		Name:        "no-manifest",
		DisplayName: "No Manifest",
	}, RequestMeta{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMappingLifecycle(t *testing.T) {
	env := newTestEnv(t)

	apps, err := env.apps.ListActive()
	require.NoError(t, err)
	appID := apps[0].ID

	mapping, err := env.mappings.Create(CreateMappingInput{
		ExternalService: "gmail",
		InternalAppID:   appID,
		MappingConfig:   models.JSONMap{"folder": "INBOX"},
	}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.MappingStatusActive, mapping.Status)
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionMappingCreated))

	inactive := models.MappingStatusInactive
	updated, err := env.mappings.Update(mapping.ID, store.MappingUpdate{Status: &inactive}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.MappingStatusInactive, updated.Status)
	assert.Equal(t, "INBOX", updated.MappingConfig["folder"])
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionMappingUpdated))

	require.NoError(t, env.mappings.Delete(mapping.ID, RequestMeta{}))
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionMappingDeleted))

	err = env.mappings.Delete(mapping.ID, RequestMeta{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMappingCreateRejectsMissingOrInactiveApp(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.mappings.Create(CreateMappingInput{
		ExternalService: "gmail",
		InternalAppID:   9999,
	}, RequestMeta{})
	assert.ErrorIs(t, err, ErrNotFound)

	inactive, err := env.apps.Register(RegisterAppInput{
		Name:        "dormant",
		DisplayName: "Dormant App",
		Manifest:    models.Manifest{PcarpVersion: "1.0"},
	}, RequestMeta{})
	require.NoError(t, err)
	require.NoError(t, env.store.DB().Model(inactive).Update("status", models.AppStatusInactive).Error)

	_, err = env.mappings.Create(CreateMappingInput{
		ExternalService: "gmail",
		InternalAppID:   inactive.ID,
	}, RequestMeta{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMappingEmptyUpdateIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	apps, err := env.apps.ListActive()
	require.NoError(t, err)
	mapping, err := env.mappings.Create(CreateMappingInput{
		ExternalService: "calendar",
		InternalAppID:   apps[0].ID,
	}, RequestMeta{})
	require.NoError(t, err)

	// No fields set: current row comes back, nothing is written
	same, err := env.mappings.Update(mapping.ID, store.MappingUpdate{}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, mapping.UpdatedAt, same.UpdatedAt)
	assert.Equal(t, int64(0), auditCount(t, env, models.ActionMappingUpdated))

	_, err = env.mappings.Update(9999, store.MappingUpdate{}, RequestMeta{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMappingUpdateRejectsBadStatus(t *testing.T) {
	env := newTestEnv(t)

	bad := "paused"
	_, err := env.mappings.Update(1, store.MappingUpdate{Status: &bad}, RequestMeta{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminPasswordLifecycle(t *testing.T) {
	env := newTestEnv(t)

	ok, err := env.admin.VerifyPassword(testAdminPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.admin.VerifyPassword("wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	err = env.admin.UpdatePassword(testAdminPassword, "short", RequestMeta{})
	assert.ErrorIs(t, err, ErrValidation)

	err = env.admin.UpdatePassword("wrong", "new-password-1", RequestMeta{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, env.admin.UpdatePassword(testAdminPassword, "new-password-1", RequestMeta{}))
	assert.Equal(t, int64(1), auditCount(t, env, models.ActionAdminPassword))

	ok, err = env.admin.VerifyPassword("new-password-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = env.admin.VerifyPassword(testAdminPassword)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	login(t, env)

	stats, err := env.admin.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.ActiveConnections)
	assert.Equal(t, int64(1), stats.Providers)
	assert.Equal(t, int64(1), stats.InternalApps)
	assert.Equal(t, int64(2), stats.AuditEvents)
}

func TestDataServiceRequiresActiveConnection(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.store.UpsertUserByEmail(nil, "cold@example.com", "Cold", "")
	require.NoError(t, err)

	_, err = env.data.Fetch(user.ID, "google", "gmail")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.data.Fetch(user.ID, "google", "drive")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.data.Fetch(user.ID, "github", "gmail")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDataServiceFetchAndSync(t *testing.T) {
	env := newTestEnv(t)
	result := login(t, env)

	payload, err := env.data.Fetch(result.User.ID, "google", "gmail")
	require.NoError(t, err)
	assert.Equal(t, "gmail", payload["service"])
	assert.NotEmpty(t, payload["messages"])

	payload, err = env.data.Fetch(result.User.ID, "google", "calendar")
	require.NoError(t, err)
	assert.Equal(t, "calendar", payload["service"])

	ack, err := env.data.Sync(result.User.ID, "google", "gmail")
	require.NoError(t, err)
	assert.Equal(t, "queued", ack["status"])
}

func TestUserServiceNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.GetByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
