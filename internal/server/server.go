package server

import (
	"backend-travelplanner/internal/apperr"
	"backend-travelplanner/internal/cache"
	"backend-travelplanner/internal/config"
	"backend-travelplanner/internal/image"
	"backend-travelplanner/internal/logging"
	"backend-travelplanner/internal/stream"
	"backend-travelplanner/internal/trip"
	"backend-travelplanner/internal/weather"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	Log    *zap.Logger
	Store  trip.Store
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, store trip.Store, redisClient *redis.Client, log *zap.Logger) *Server {
	log = logging.OrNop(log)
	if store == nil {
		store = trip.NewMemoryStore()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          apperr.Handler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestID())
	app.Use(requestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		Log:    log,
		Store:  store,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient, log.Named("stream")),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.App.Group(s.Cfg.APIPrefix)

	images := image.NewService(
		image.NewClient(s.Cfg.PixabayBaseURL, s.Cfg.PixabayAPIKey, s.Cfg.HTTPTimeout),
		cache.New(s.Redis, "image", s.Cfg.CacheTTL),
		s.Log.Named("image"),
	)
	forecasts := weather.NewService(
		weather.NewClient(s.Cfg.WeatherbitBaseURL, s.Cfg.WeatherbitAPIKey, s.Cfg.HTTPTimeout),
		cache.New(s.Redis, "weather", s.Cfg.CacheTTL),
		s.Log.Named("weather"),
	)

	image.RegisterRoutes(api, images, s.Log.Named("image"))
	weather.RegisterRoutes(api, forecasts, s.Log.Named("weather"))
	trip.RegisterRoutes(api, trip.NewService(s.Store, s.Stream, s.Log.Named("trip")), s.Log.Named("trip"))
	stream.RegisterRoutes(api.Group("/stream"), s.Stream)
}

// Close releases what NewServer started.
func (s *Server) Close() error {
	return s.Stream.Close()
}
