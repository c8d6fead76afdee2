package main

import (
	"os"
	"strings"

	"github.com/nimasrn/bizledger/internal/config"
	"github.com/nimasrn/bizledger/internal/handlers"
	"github.com/nimasrn/bizledger/internal/repository"
	"github.com/nimasrn/bizledger/internal/services"
	xhttp "github.com/nimasrn/bizledger/pkg/http"
	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/nimasrn/bizledger/pkg/pg"
	"github.com/nimasrn/bizledger/pkg/prom"
	"github.com/nimasrn/bizledger/pkg/redis"
	"github.com/nimasrn/bizledger/pkg/token"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting api", "version", version, "commit", commit, "date", date, "env", cfg.AppEnv)

	if cfg.AppDebugMetricsAddr != "" {
		hostname, _ := os.Hostname()
		if err = prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed registering metrics", "error", err)
		}
		go func() {
			if err := prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI); err != nil {
				logger.Error("error in running metrics-server", "error", err)
			}
		}()
	}

	// transport
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.CORSMiddleware(cfg.HttpCorsOrigin))
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))
	// recover runs inside the timeout goroutine so handler panics are caught
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.CompressMiddleware(6))
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     cfg.PostgresReadUser,
		Host:     cfg.PostgresReadHost,
		Port:     cfg.PostgresReadPort,
		Password: cfg.PostgresReadPassword,
		Database: cfg.PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
	}

	pgDebug := cfg.AppEnv == "dev"
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	defer db.Close()

	deps := map[string]services.Pinger{"database": db}

	// the login throttle is optional; without redis logins are not rate limited
	var throttle *services.LoginThrottle
	if cfg.RedisAddr != "" {
		redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{cfg.RedisAddr},
			ClientName: cfg.AppName,
			DB:         cfg.RedisDatabase,
			Username:   cfg.RedisUsername,
			Password:   cfg.RedisPassword,
		})
		if err != nil {
			logger.Warn("redis unavailable, login throttling disabled", "error", err)
		} else {
			defer redisAdap.Close()
			throttle = services.NewLoginThrottle(redisAdap, cfg.AuthLoginMaxAttempts, cfg.AuthLoginWindow)
			deps["redis"] = redisAdap
		}
	}

	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	debtorRepo := repository.NewDebtorRepository(db)

	// services
	loc := cfg.ReportLocation()
	issuer := token.NewIssuer(cfg.JwtSecret, cfg.JwtTTL)
	authService := services.NewAuthService(userRepo, issuer, throttle)
	transactionService := services.NewTransactionService(transactionRepo, loc)
	debtorService := services.NewDebtorService(debtorRepo)
	healthService := services.NewHealthService(deps)

	handlers.RegisterRoutes(s.Router, handlers.Handlers{
		Health:       handlers.NewHealthHandler(healthService),
		Auth:         handlers.NewAuthHandler(authService),
		Transactions: handlers.NewTransactionHandler(transactionService, loc),
		Debtors:      handlers.NewDebtorHandler(debtorService, loc),
	}, handlers.AuthMiddleware(authService))

	done := make(chan struct{})
	s.CloseOnSignal(done)

	go func() {
		if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-done
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			path := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(path); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return path
		}
	}
	return ""
}
