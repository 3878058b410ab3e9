package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"membership/internal/config"
	"membership/internal/handlers"
	"membership/internal/logger"
	"membership/internal/repository"
	"membership/internal/repository/db"
	"membership/internal/server"
	"membership/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	configDir     = "configs" // configs/config.yml
	dbOpenTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := openDB(cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to open database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn, cfg.DB.Driver)
	services := service.NewService(repos, service.SessionOptions{
		Secret: sessionSecret(cfg.Session, log),
		TTL:    cfg.Session.TTL,
	}, log)
	apiHandler := handlers.NewHandler(services, log, handlers.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.SecureCookie,
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// expire sessions in the store
	go services.Reap(ctx, cfg.Session.ReapInterval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg.Server.ShutdownTimeout, log)
}

// openDB opens the configured database and ensures the schema exists.
func openDB(c config.DBConfig, log *logger.Logger) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbOpenTimeout)
	defer cancel()

	if c.Driver == db.DriverSQLite {
		log.Infow("opening sqlite", "path", c.Path)
	} else {
		log.Infow("opening postgres", "host", c.Host, "port", c.Port, "name", c.Name)
	}
	return db.Open(ctx, c.Driver, c.DSN())
}

// sessionSecret returns the configured signing key, or a random one that
// will not survive a restart.
func sessionSecret(c config.SessionConfig, log *logger.Logger) []byte {
	if c.Secret != "" {
		return []byte(c.Secret)
	}
	log.Warnw("session.secret not set; generated a random key, sessions end on restart")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalw("failed to generate session key", "err", err)
	}
	return key
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, c config.ServerConfig, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("starting server", "port", c.Port)
		opts := server.Options{
			ReadHeaderTimeout: c.ReadHeaderTimeout,
			WriteTimeout:      c.WriteTimeout,
			IdleTimeout:       c.IdleTimeout,
		}
		if err := srv.Run(c.Port, handler.HTTPHandler(), opts); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
