package server

import (
	"github.com/SonBao99/gps-map-app/internal/config"
	"github.com/SonBao99/gps-map-app/internal/history"
	"github.com/SonBao99/gps-map-app/internal/route"
	"github.com/SonBao99/gps-map-app/internal/stream"
	"github.com/SonBao99/gps-map-app/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const defaultRouteCacheSize = 128

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Tracks *track.Manager
	Routes *route.Service
	Rides  *history.Repo
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)

	cacheSize := cfg.RouteCacheSize
	if cacheSize <= 0 {
		cacheSize = defaultRouteCacheSize
	}
	routes, err := route.NewService(route.NewOSRMProvider(cfg.DirectionsURL), cacheSize)
	if err != nil {
		// only reachable with a non-positive size, which we just clamped
		panic(err)
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: hub,
		Tracks: track.NewManager(hub.BroadcastSnapshot),
		Routes: routes,
		Rides:  history.NewRepo(db),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	track.RegisterRoutes(s.App.Group("/tracks"), s.Tracks, s.Rides)
	route.RegisterRoutes(s.App.Group("/directions"), s.Routes)
	history.RegisterRoutes(s.App.Group("/rides"), s.Rides)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
