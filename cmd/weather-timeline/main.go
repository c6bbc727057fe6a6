package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weather-timeline/internal/api/http"
	"github.com/i474232898/weather-timeline/internal/config"
	"github.com/i474232898/weather-timeline/internal/scheduler"
	"github.com/i474232898/weather-timeline/internal/store"
	"github.com/i474232898/weather-timeline/internal/weather"
	"github.com/i474232898/weather-timeline/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	httpCfg := providers.DefaultHTTPConfig(httpClient)

	zones, err := providers.NewZoneFinder()
	if err != nil {
		log.Printf("INFO: timezone finder unavailable, falling back to forecast zones: %v", err)
	}
	var zoneFinder weather.ZoneFinder
	if zones != nil {
		zoneFinder = zones
	}

	// Forecasts are rate limited; geocoding and alerts are not.
	forecastCfg := httpCfg
	forecastCfg.Limiter = providers.NewLimiter(cfg.OpenMeteoRPS, int(cfg.OpenMeteoRPS))
	forecasts := providers.NewOpenMeteoProvider(forecastCfg, cfg.OpenMeteoURL)

	var alerts weather.AlertProvider
	switch cfg.AlertsProvider {
	case "nws":
		alerts = providers.NewNWSProvider(httpCfg, cfg.NWSURL, cfg.NWSUserAgent)
	case "weatherapi":
		alerts = providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherAPIURL, cfg.WeatherAPIKey)
	}

	openWeather := providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherURL, cfg.OpenWeatherAPIKey, zoneFinder)
	var geo weather.GeoResolver = openWeather
	if cfg.Geocoder == "google" {
		geo = providers.NewGoogleGeocoder(cfg.GoogleAPIKey, zoneFinder)
	}

	source := weather.NewSource(forecasts, alerts)

	// The main view follows one location at a time; widgets resolve on
	// their own.
	service := weather.NewService(weather.NewLatestResolver(geo), source)
	widget := weather.NewWidget(geo, source, cfg.DefaultTimezone)
	model := weather.NewModel(cfg.DefaultTimezone)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-service.Updates():
				state := service.State()
				if state.Aggregate != nil {
					model.Apply(state.Aggregate, time.Now())
				}
			}
		}
	}()

	// In-memory timeline store with configured retention.
	memStore := store.NewMemoryStore(cfg.TimelineMaxHistory, cfg.TimelineMaxAge)

	var publisher scheduler.Publisher
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pub := store.NewRedisPublisher(redisClient, cfg.RedisStream)
		defer pub.Close()
		publisher = pub
	}

	widgets := make([]scheduler.WidgetSpec, 0, len(cfg.Widgets))
	for _, w := range cfg.Widgets {
		widgets = append(widgets, scheduler.WidgetSpec{Name: w.Name, Config: w.WidgetConfig()})
	}

	// Scheduler that rebuilds widget timelines once they run out.
	sched := scheduler.New(widgets, cfg.RefreshInterval, widget, memStore, publisher)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-timeline",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-timeline",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:  service,
		Model:    model,
		Widget:   widget,
		Cities:   openWeather,
		Fallback: cfg.DefaultTimezone,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
