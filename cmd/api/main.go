package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/dineat/restaurant-api/internal/cart"
	"github.com/dineat/restaurant-api/internal/catalog"
	"github.com/dineat/restaurant-api/internal/chatbot"
	"github.com/dineat/restaurant-api/internal/config"
	"github.com/dineat/restaurant-api/internal/database"
	"github.com/dineat/restaurant-api/internal/httpx"
	"github.com/dineat/restaurant-api/internal/payment"
	"github.com/dineat/restaurant-api/internal/user"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	catalogRepo := catalog.NewPGRepo(pool)
	userRepo := user.NewPGRepo(pool)
	cartRepo := cart.NewPGRepo(pool)
	cartSvc := cart.NewService(cartRepo, catalogRepo, cfg.AllowClientItems)
	tokens := payment.NewRedisStore(rdb, time.Duration(cfg.PaymentTTLMin)*time.Minute)
	upi := payment.NewUPIGenerator(cfg.UPIVPA, cfg.UPIMerchant)
	assistant := chatbot.New(nil) // no generative backend wired; keyword fallback

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(logger))
	registerRoutes(r, cartSvc, catalogRepo, userRepo, tokens, upi, assistant)

	logger.Info("api listening", slog.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}

func registerRoutes(r *gin.Engine, svc *cart.Service, cat catalog.Repository,
	users user.Repository, tokens payment.Store, upi *payment.UPIGenerator,
	assistant *chatbot.Assistant) {

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	r.POST("/register", registerHandler(users))

	// Payment callbacks and polling arrive from the provider redirect, not a
	// logged-in session.
	r.POST("/payments/:token/paid", markPaidHandler(tokens))
	r.GET("/payments/:token/status", paymentStatusHandler(tokens))

	r.POST("/chat", chatHandler(assistant))
	r.GET("/chat/status", chatStatusHandler(assistant))

	auth := r.Group("/", httpx.Identity())
	{
		auth.GET("/menu", menuHandler(cat))
		auth.GET("/tables", tablesHandler(cat))

		auth.GET("/profile", profileHandler(users))
		auth.PUT("/profile", updateProfileHandler(users))

		auth.GET("/cart", cartHandler(svc))
		auth.POST("/cart/items", addItemHandler(svc))
		auth.PUT("/cart/items/:id", setQuantityHandler(svc))
		auth.DELETE("/cart/items/:id", removeItemHandler(svc))

		auth.POST("/checkout", checkoutHandler(svc))
		auth.POST("/payments", paymentIntentHandler(tokens, upi))

		auth.GET("/orders", historyHandler(svc))
		auth.GET("/orders/:id", orderHandler(svc))

		staff := auth.Group("/", httpx.RequireRoles(user.RoleAdmin, user.RoleKitchen))
		{
			staff.GET("/kitchen/orders", activeOrdersHandler(svc))
			staff.PUT("/orders/:id/status", updateStatusHandler(svc))
		}
	}
}
