// Package server initializes and runs the CarVault application server.
// It loads configuration, opens the database and runs schema migrations,
// wires the services behind the REST endpoint, and handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vkuzmenko/carvault/internal/logging"
	"github.com/vkuzmenko/carvault/internal/server/config"
	sh "github.com/vkuzmenko/carvault/internal/server/http"
	"github.com/vkuzmenko/carvault/internal/server/repositories/repomanager"
	"github.com/vkuzmenko/carvault/internal/server/services"
	"github.com/vkuzmenko/carvault/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
	carService  *services.CarService
}

func NewApp(ctx context.Context) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	cfg := config.LoadConfig()

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	blobs := storage.NewS3Store(cfg)

	us := services.NewUserService(db, rm, cfg)
	cs := services.NewCarService(db, rm, blobs)

	return &App{config: cfg, logger: logger, userService: us, carService: cs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	secret := []byte(app.config.SecretKey)

	h := sh.NewHandler(app.userService, app.carService, secret, app.config.TokenValidityDuration, app.logger)
	s := sh.NewServer(app.config.EndpointAddrHTTP, app.config.CORSAllowOrigin, h, secret, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
