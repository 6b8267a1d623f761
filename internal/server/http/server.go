package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/vkuzmenko/carvault/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server wires the CarVault handlers into a fiber app and manages its
// lifecycle.
type Server struct {
	address     string
	allowOrigin string
	handler     *Handler
	jwtSecret   []byte
	logger      logging.Logger
}

func NewServer(address string, allowOrigin string, h *Handler, jwtSecret []byte, l logging.Logger) *Server {
	return &Server{
		address:     address,
		allowOrigin: allowOrigin,
		handler:     h,
		jwtSecret:   jwtSecret,
		logger:      l.With("module", "http_server"),
	}
}

// newApp builds the fiber app with all routes registered. Split from Run
// so tests can drive requests through app.Test without a listener.
func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.allowOrigin,
		AllowCredentials: true,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Car Management App")
	})

	auth := app.Group("/auth")
	auth.Post("/signup", s.handler.Signup)
	auth.Post("/login", s.handler.Login)

	car := app.Group("/car", TokenAuth(s.jwtSecret))
	car.Post("/createCar", s.handler.CreateCar)
	car.Put("/updateCar", s.handler.UpdateCar)
	car.Post("/getCar", s.handler.GetCar)
	car.Get("/getAllCars", s.handler.GetAllCars)
	car.Delete("/deleteCar", s.handler.DeleteCar)

	return app
}

func (s *Server) Run(ctx context.Context) error {
	app := s.newApp()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := app.Listen(s.address); err != nil {
		return err
	}

	return nil
}
