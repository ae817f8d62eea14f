//	@title			AuthHub API
//	@version		1.0
//	@description	Account linkage hub: OAuth provider connections for internal apps
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/voltaic-systems/authhub

//	@license.name	MIT
//	@license.url	https://github.com/voltaic-systems/authhub/blob/main/LICENSE

//	@host		localhost:3001
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the session token.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/voltaic-systems/authhub/internal/auth"
	"github.com/voltaic-systems/authhub/internal/cache"
	"github.com/voltaic-systems/authhub/internal/client"
	"github.com/voltaic-systems/authhub/internal/config"
	"github.com/voltaic-systems/authhub/internal/handlers"
	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/middleware"
	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/services"
	"github.com/voltaic-systems/authhub/internal/store"
	"github.com/voltaic-systems/authhub/internal/token"
	"github.com/voltaic-systems/authhub/internal/util"
	"github.com/voltaic-systems/authhub/internal/version"

	"github.com/appleboy/graceful"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/voltaic-systems/authhub/api" // swagger docs
)

func main() {
	showVersion := flag.Bool("version", false, "print build information and exit")
	flag.BoolVar(showVersion, "v", false, "print build information and exit (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.PrintVersion()
		return
	}

	switch flag.Arg(0) {
	case "server":
		runServer()
	case "":
		printUsage()
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [options] <command>\n\n", os.Args[0])
	fmt.Println("Account linkage hub for internal apps")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  server         start the API server")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, -version   print build information and exit")
	fmt.Println("  -h, -help      print this help")
}

func runServer() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Metrics
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics enabled")
	} else {
		log.Println("Metrics disabled")
	}

	// Provider registry cache
	ctx := context.Background()
	listCache, rowCache, cacheClosers, err := setupProviderCaches(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize provider cache: %v", err)
	}

	// Token manager
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenExpiration, cfg.LoginExpiration)

	// Services
	auditService := services.NewAuditService(db, recorder)
	userService := services.NewUserService(db)
	providerService := services.NewProviderService(db, listCache, rowCache, cfg.ProviderCacheTTL)
	connectionService := services.NewConnectionService(db, auditService, recorder)
	adminService := services.NewAdminService(db, auditService)
	appService := services.NewAppService(db, auditService, recorder)
	mappingService := services.NewMappingService(db, auditService, recorder)
	dataService := services.NewDataService(providerService, connectionService, recorder)

	exchangers, err := setupExchangers(cfg, providerService)
	if err != nil {
		log.Fatalf("Failed to initialize OAuth provider: %v", err)
	}
	authService := services.NewAuthService(db, tokens, exchangers, auditService, recorder)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	providerHandler := handlers.NewProviderHandler(providerService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	adminHandler := handlers.NewAdminHandler(adminService, auditService, appService)
	mappingHandler := handlers.NewMappingHandler(mappingService, appService)
	dataHandler := handlers.NewDataHandler(dataService)

	// Gin
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(util.IPMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.AdminPasswordHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", healthCheckHandler(db))

	switch {
	case !cfg.MetricsEnabled:
		log.Println("Prometheus metrics endpoint disabled")
	case cfg.MetricsToken != "":
		log.Println("Prometheus metrics at /metrics (bearer token required)")
		r.GET("/metrics", middleware.MetricsAuth(cfg.MetricsToken), gin.WrapH(promhttp.Handler()))
	default:
		log.Println("Prometheus metrics at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if !cfg.IsProduction {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Println("Swagger UI enabled at /swagger/index.html")
	}

	authLimiter, callbackLimiter, redisClient := setupRateLimiting(cfg)

	requireAuth := middleware.RequireAuth(tokens, recorder)

	// Login flow
	authGroup := r.Group("/api/auth")
	{
		authGroup.GET("/me", requireAuth, authHandler.Me)
		authGroup.GET("/:provider", authLimiter, authHandler.Authorize)
		authGroup.POST("/:provider/callback", callbackLimiter, authHandler.Callback)
	}

	// Provider registry. The listing takes an optional token: authenticated
	// callers get their connection state alongside each provider.
	providers := r.Group("/api/providers")
	{
		providers.GET("", middleware.OptionalAuth(tokens), providerHandler.List)
		providers.GET("/:id", providerHandler.Get)
	}

	// Connection lifecycle
	connections := r.Group("/api/connections")
	connections.Use(requireAuth)
	{
		connections.GET("", connectionHandler.List)
		connections.GET("/:id", connectionHandler.Get)
		connections.DELETE("/:id", connectionHandler.Disconnect)
		connections.POST("/:id/refresh", connectionHandler.Refresh)
	}

	// Admin bookkeeping
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminGate(cfg.AdminAPIProtected, adminService))
	{
		admin.GET("/logs", adminHandler.ListLogs)
		admin.GET("/logs/stats", adminHandler.LogStats)
		admin.GET("/stats", adminHandler.Stats)
		admin.POST("/register-app", adminHandler.RegisterApp)
		admin.GET("/apps", adminHandler.ListApps)
		admin.POST("/verify-password", adminHandler.VerifyPassword)
		admin.PUT("/password", adminHandler.UpdatePassword)
	}

	// Service mapping
	mapping := r.Group("/api/mapping")
	mapping.Use(middleware.AdminGate(cfg.AdminAPIProtected, adminService))
	{
		mapping.GET("/internal-apps", mappingHandler.ListInternalApps)
		mapping.GET("/external-services", mappingHandler.ListExternalServices)
		mapping.POST("/create", mappingHandler.Create)
		mapping.GET("/list", mappingHandler.List)
		mapping.PUT("/:id", mappingHandler.Update)
		mapping.DELETE("/:id", mappingHandler.Delete)
	}

	// Data plane
	data := r.Group("/api/v1/data")
	data.Use(requireAuth)
	{
		data.GET("/:provider/:service", dataHandler.Fetch)
		data.POST("/:provider/:service", dataHandler.Sync)
	}

	log.Printf("Provider mode: %s", cfg.ProviderMode)
	log.Printf("AuthHub server starting on %s", cfg.ServerAddr)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	m := graceful.NewManager()

	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})

	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}
		log.Println("Server exited")
		return nil
	})

	if redisClient != nil {
		m.AddShutdownJob(func() error {
			log.Println("Closing Redis connection...")
			return redisClient.Close()
		})
	}

	for _, closer := range cacheClosers {
		m.AddShutdownJob(closer)
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing database connection...")
		return db.Close()
	})

	// Daily audit retention pass
	if cfg.AuditLogRetention > 0 {
		m.AddRunningJob(func(ctx context.Context) error {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()

			cleanup := func() {
				if deleted, err := auditService.CleanupOldLogs(cfg.AuditLogRetention); err != nil {
					log.Printf("Failed to cleanup old audit logs: %v", err)
				} else if deleted > 0 {
					log.Printf("Cleaned up %d old audit logs", deleted)
				}
			}

			cleanup()
			for {
				select {
				case <-ticker.C:
					cleanup()
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	// Periodic active-connection gauge refresh
	if cfg.MetricsEnabled {
		m.AddRunningJob(func(ctx context.Context) error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()

			refresh := func() {
				count, err := db.CountConnectionsByStatus(models.ConnectionStatusActive)
				if err != nil {
					recorder.RecordDatabaseQueryError("count_active_connections")
					return
				}
				recorder.SetActiveConnections(count)
			}

			refresh()
			for {
				select {
				case <-ticker.C:
					refresh()
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	<-m.Done()
}

// setupProviderCaches builds the registry caches for the configured backend
func setupProviderCaches(
	ctx context.Context,
	cfg *config.Config,
) (cache.Cache[[]models.Provider], cache.Cache[models.Provider], []func() error, error) {
	if cfg.CacheType == config.CacheTypeRedis {
		listCache, err := cache.NewRueidisCache[[]models.Provider](
			ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "providers:list:")
		if err != nil {
			return nil, nil, nil, err
		}
		rowCache, err := cache.NewRueidisCache[models.Provider](
			ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "providers:row:")
		if err != nil {
			_ = listCache.Close()
			return nil, nil, nil, err
		}
		log.Printf("Provider cache: redis (addr=%s, db=%d)", cfg.RedisAddr, cfg.RedisDB)
		return listCache, rowCache, []func() error{listCache.Close, rowCache.Close}, nil
	}

	log.Println("Provider cache: memory (single instance only)")
	return cache.NewMemoryCache[[]models.Provider](), cache.NewMemoryCache[models.Provider](), nil, nil
}

// setupExchangers builds the exchanger per enabled provider. Mock mode keeps
// the full callback flow while short-circuiting the external calls.
func setupExchangers(
	cfg *config.Config,
	providers *services.ProviderService,
) (map[string]auth.Exchanger, error) {
	row, err := providers.GetByName("google")
	if err != nil {
		return nil, fmt.Errorf("google provider row missing: %w", err)
	}

	exchangers := make(map[string]auth.Exchanger)
	switch cfg.ProviderMode {
	case config.ProviderModeGoogle:
		httpClient, err := client.NewOAuthClient(cfg.OAuthTimeout, cfg.OAuthInsecureSkipVerify)
		if err != nil {
			return nil, err
		}
		exchangers["google"] = auth.NewGoogleExchanger(auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}, row, httpClient)
		log.Printf("Google OAuth configured: redirect=%s", cfg.GoogleRedirectURL)
	default:
		exchangers["google"] = auth.NewMockExchanger("google", row.OAuthConfig.AuthURL, row.Scopes)
		log.Println("Mock OAuth exchanger active; no external calls will be made")
	}
	return exchangers, nil
}

type rateLimiterFunc = gin.HandlerFunc

// setupRateLimiting builds the per-route limiters. When rate limiting is
// disabled both limiters are pass-throughs.
func setupRateLimiting(cfg *config.Config) (authLimiter, callbackLimiter rateLimiterFunc, redisClient *redis.Client) {
	passthrough := func(c *gin.Context) { c.Next() }
	if !cfg.EnableRateLimit {
		return passthrough, passthrough, nil
	}

	storeType := middleware.RateLimitStoreMemory
	if cfg.RateLimitStore == "redis" {
		var err error
		redisClient, err = middleware.CreateRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis for rate limiting: %v", err)
		}
		storeType = middleware.RateLimitStoreRedis
		log.Printf("Rate limit store: redis (addr=%s)", cfg.RedisAddr)
	} else {
		log.Println("Rate limit store: memory (single instance only)")
	}

	build := func(rpm int) gin.HandlerFunc {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: rpm,
			StoreType:         storeType,
			RedisClient:       redisClient,
			CleanupInterval:   5 * time.Minute,
		})
		if err != nil {
			log.Fatalf("Failed to create rate limiter: %v", err)
		}
		return limiter
	}

	return build(cfg.AuthRateLimit), build(cfg.CallbackRateLimit), redisClient
}

// healthCheckHandler reports liveness plus database reachability
func healthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": version.Version,
		})
	}
}
