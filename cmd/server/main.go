package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mybrand-ng/mybrand-api/internal/config"
	"github.com/mybrand-ng/mybrand-api/internal/database"
	"github.com/mybrand-ng/mybrand-api/internal/handler"
	"github.com/mybrand-ng/mybrand-api/internal/media"
	"github.com/mybrand-ng/mybrand-api/internal/middleware"
	"github.com/mybrand-ng/mybrand-api/internal/payment"
	"github.com/mybrand-ng/mybrand-api/internal/queue"
	"github.com/mybrand-ng/mybrand-api/internal/realtime"
	"github.com/mybrand-ng/mybrand-api/internal/repository"
	"github.com/mybrand-ng/mybrand-api/internal/router"
	"github.com/mybrand-ng/mybrand-api/internal/service"
)

func main() {
	cfg := config.Load()

	client, err := database.Open(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	cols := database.NewCollections(client, cfg.MongoDB)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.EnsureIndexes(ctx, cols); err != nil {
			log.Printf("index setup: %v", err)
		}
		cancel()
	}

	brands := repository.NewBrandRepo(cols.Brands)
	products := repository.NewProductRepo(cols.Products)
	posts := repository.NewPostRepo(cols.Posts)
	drags := repository.NewDragRepo(cols.Drags)
	clicks := repository.NewClickRepo(cols.ProductClicks)

	// Redis is optional; without it the auth rate limiter degrades to a
	// pass-through.
	rdb := config.NewRedisClient()
	rateLimit := middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb)

	// An empty CLOUDINARY_URL yields an uploader that rejects uploads but
	// lets everything else run.
	uploader, err := media.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("cloudinary init: %v", err)
	}
	if cfg.CloudinaryURL == "" {
		log.Println("CLOUDINARY_URL not set; media uploads disabled")
	}

	verifier := payment.NewClient(cfg.FlutterwaveKey)
	notifier := service.NewNotificationPublisher()

	hub := realtime.NewHub()
	go hub.Run()
	go queue.StartNotificationConsumer(hub)

	auth := handler.NewAuthHandler(cfg, brands, verifier, uploader)
	brand := handler.NewBrandHandler(cfg, brands, products, posts, verifier, uploader, notifier)
	product := handler.NewProductHandler(products, brands, uploader, notifier)
	post := handler.NewPostHandler(posts, brands, uploader, notifier)
	drag := handler.NewDragHandler(drags, brands, notifier)
	public := handler.NewPublicHandler(cfg, brands, products, posts, drags)
	analytics := handler.NewAnalyticsHandler(brands, products, clicks)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, middleware.HeaderAuthToken},
		AllowCredentials: true,
	}))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret, rateLimit)
	router.RegisterBrands(e, brand, cfg.JWTSecret)
	router.RegisterProducts(e, product, cfg.JWTSecret)
	router.RegisterPosts(e, post, cfg.JWTSecret)
	router.RegisterDrags(e, drag, cfg.JWTSecret)
	router.RegisterPublic(e, public, product)
	router.RegisterAnalytics(e, analytics)
	e.GET("/ws", realtime.ServeWS(hub, cfg.ClientURL))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
