package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/fcv-2025.net/codearena/internal/adapter/cache/problemcache"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/crypto"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/judge0"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/metrics"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/postgres/contestrepository"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/postgres/languagerepository"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/postgres/problemrepository"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/postgres/submissionrepository"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/postgres/userrepository"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/redis/contestlock"
	"gitlab.com/fcv-2025.net/codearena/internal/config"
	auth2 "gitlab.com/fcv-2025.net/codearena/internal/core/services/auth"
	"gitlab.com/fcv-2025.net/codearena/internal/core/services/contest"
	"gitlab.com/fcv-2025.net/codearena/internal/core/services/language"
	logger2 "gitlab.com/fcv-2025.net/codearena/internal/global/logger"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers"
	http2 "gitlab.com/fcv-2025.net/codearena/internal/http"
	"gitlab.com/fcv-2025.net/codearena/internal/schedulerengine"
)

const problemCacheSize = 2048

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()

	zapLogger := logging.NewZapLoggerWithConfig(sysCfg.LogConfig, sysCfg.DebugMode)
	defer zapLogger.Sync()
	logger2.SetLogger(zapLogger)
	logger := logger2.Logger
	logger.Info("Starting contest service")

	ctxBg, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := setupDatabase(ctxBg, sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	schema := sysCfg.PostgresConfig.Schema

	// SECONDARY PORTS
	contestRepo := contestrepository.NewContestRepository(db, schema, logger)
	submissionRepo := submissionrepository.NewSubmissionRepository(db, schema, logger)
	languageRepo := languagerepository.NewLanguageRepository(db, schema, logger)
	userPort := userrepository.New(db, logger, schema)
	problemCache, err := problemcache.New(problemrepository.NewProblemRepository(db, schema, logger), problemCacheSize, logger)
	if err != nil {
		logger.Error("Failed to build problem cache", "error", err)
		os.Exit(1)
	}
	defer problemCache.Close()
	if err := languageRepo.EnsureTableExists(ctxBg); err != nil {
		logger.Error("Failed to prepare language catalogue", "error", err)
		os.Exit(1)
	}
	locker := contestlock.NewContestLocker(redisClient, sysCfg.RedisConfig.LockTTL, sysCfg.RedisConfig.LockWait, logger)
	judge := judge0.NewClient(sysCfg.JudgeConfig, logger)
	recorder := metrics.NewRecorder()

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)

	//services
	contestSvc := contest.NewContestService(
		contestRepo, problemCache, submissionRepo, languageRepo, judge, locker, logger,
		contest.WithScoring(contest.NewScoringRule(sysCfg.ScoringConfig)),
		contest.WithMetrics(recorder),
	)
	languageSvc := language.NewLanguageService(languageRepo, logger)
	ggAuth := auth2.NewGoogleAuthService(userPort, jwtProvider, sysCfg.GGAuthConfig)
	localAuth := auth2.NewLocalAuthService(userPort, jwtProvider)

	var metricsHandler = recorder.Handler()
	if !sysCfg.MetricsConfig.Enabled {
		metricsHandler = nil
	}
	healthChecks := map[string]handlers.HealthCheck{
		"postgres": db.PingContext,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}
	serviceProvider := http2.NewServiceProvider(contestSvc, languageSvc, jwtProvider, ggAuth, localAuth, metricsHandler, healthChecks)

	//server
	httpServer := http2.NewServer(sysCfg.HttpPort, "codearena", *serviceProvider, sysCfg.GGAuthConfig, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	serverErr := make(chan error, 1)
	httpServer.Start(serverErr)

	syncEngine := schedulerengine.NewSchedulerEngine(sysCfg.StatusSyncCfg, contestRepo, nil, logger)
	syncEngine.StartStatusSyncEngine(ctxBg)

	select {
	case <-quit:
	case err := <-serverErr:
		logger.Error("Http server stopped unexpectedly", "error", err)
	}
	logger.Info("Shutting down server...")

	httpServer.Stop()
	cancel()
	syncEngine.Wait()

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(ctx context.Context, cfg *config.PostgresConfig) (*sqlx.DB, error) {
	if cfg.Url == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
