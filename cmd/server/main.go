package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/thirumala/cashbook/docs"
	"github.com/thirumala/cashbook/internal/audit"
	"github.com/thirumala/cashbook/internal/cache"
	"github.com/thirumala/cashbook/internal/config"
	"github.com/thirumala/cashbook/internal/database"
	"github.com/thirumala/cashbook/internal/fetcher"
	"github.com/thirumala/cashbook/internal/handlers"
	mW "github.com/thirumala/cashbook/internal/middleware"
	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/services"
)

// @title Thirumala Cash Book API
// @version 1.0
// @description Cash book entries, balance sheet and reports
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("log.level", "LOG_LEVEL")
	viper.BindEnv("log.format", "LOG_FORMAT")
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("server.static_dir", "STATIC_DIR")

	viper.BindEnv("report.batch_size", "REPORT_BATCH_SIZE")
	viper.BindEnv("report.max_failures", "REPORT_MAX_FAILURES")
	viper.BindEnv("report.batch_delay", "REPORT_BATCH_DELAY")
	viper.BindEnv("report.fetch_timeout", "REPORT_FETCH_TIMEOUT")
	viper.BindEnv("report.cache_ttl", "REPORT_CACHE_TTL")
	viper.BindEnv("report.cache_max_entries", "REPORT_CACHE_MAX_ENTRIES")
	viper.BindEnv("report.cache_purge_schedule", "REPORT_CACHE_PURGE_SCHEDULE")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.static_dir", "./public")

	configErr := viper.ReadInConfig()

	logger := config.NewLogger(viper.GetString("log.level"), viper.GetString("log.format"))
	if configErr != nil {
		logger.WithError(configErr).Info("config file not found, using environment and defaults")
	}

	// Amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "Thirumala Cash Book API"
	docs.SwaggerInfo.Description = "Cash book entries, balance sheet and reports"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	db := database.InitDatabase(logger)
	defer db.Close()

	redisClient := database.InitRedis(logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	reportCfg := config.LoadReportConfig()
	store := database.NewLedgerStore(db)
	rowFetcher := fetcher.New(store, logger, fetcher.Options{
		BatchSize:   reportCfg.BatchSize,
		MaxFailures: reportCfg.MaxFailures,
		BatchDelay:  reportCfg.BatchDelay,
	})

	sheetCache := cache.New[models.BalanceSheet](reportCfg.CacheTTL, reportCfg.CacheMaxEntries)
	janitor, err := cache.StartJanitor(sheetCache, reportCfg.CachePurgeSchedule, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to start cache janitor")
	}
	defer janitor.Stop()

	auditLogger := audit.NewLogger(logger)
	idempotency := services.NewIdempotencyStore(redisClient)

	cashbookService := services.NewCashbookService(store, rowFetcher, idempotency, auditLogger, logger)
	reportService := services.NewReportService(rowFetcher, sheetCache, reportCfg.FetchTimeout, logger)
	masterService := services.NewMasterService(store)

	cashbookHandler := handlers.NewCashbookHandler(cashbookService, logger)
	reportHandler := handlers.NewReportHandler(reportService, logger)
	masterHandler := handlers.NewMasterHandler(masterService, logger)

	// Bulk fetches may run up to the fetch timeout
	requestTimeout := reportCfg.FetchTimeout + 30*time.Second

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(requestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Content-Disposition", "Idempotent-Replayed", "X-Entry-Unchanged"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Use(mW.AuthMiddleware)

		r.Get("/balance-sheet", reportHandler.BalanceSheet)
		r.Get("/balance-sheet/export", reportHandler.ExportBalanceSheet)
		r.Get("/balance-sheet/cache/stats", reportHandler.CacheStats)
		r.Get("/dashboard/stats", reportHandler.DashboardStats)
		r.Get("/reports/company-balances", reportHandler.CompanyBalances)
		r.Get("/reports/daily", reportHandler.DailyReport)

		r.Get("/entries", cashbookHandler.ListEntries)
		r.Get("/entries/all", cashbookHandler.ListAllEntries)
		r.Post("/entries", cashbookHandler.CreateEntry)
		r.Get("/entries/{id}", cashbookHandler.GetEntry)
		r.Put("/entries/{id}", cashbookHandler.UpdateEntry)
		r.Post("/entries/{id}/approve", cashbookHandler.ApproveEntry)
		r.Get("/entries/{id}/history", cashbookHandler.EntryHistory)

		r.Get("/masters/companies", masterHandler.Companies)
		r.Get("/masters/accounts", masterHandler.Accounts)
		r.Get("/masters/sub-accounts", masterHandler.SubAccounts)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(mW.RequireRole(models.RoleAdmin))

			r.Post("/balance-sheet/cache/clear", reportHandler.ClearCache)
			r.Post("/entries/{id}/lock", cashbookHandler.LockEntry)
			r.Post("/entries/{id}/unlock", cashbookHandler.UnlockEntry)
			r.Delete("/entries/{id}", cashbookHandler.DeleteEntry)
		})
	})

	// Front end build, with index.html fallback for client routes
	r.Handle("/*", mW.StaticFileServer(viper.GetString("server.static_dir")))

	port := viper.GetString("server.port")

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.WithField("port", port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	logger.Info("server stopped")
}
