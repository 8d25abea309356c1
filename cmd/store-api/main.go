package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dmstore/backend/internal/config"
	"github.com/dmstore/backend/internal/httpx"
	"github.com/dmstore/backend/internal/logx"
	"github.com/dmstore/backend/internal/mail"
	"github.com/dmstore/backend/internal/order"
	"github.com/dmstore/backend/internal/pricing"
	"github.com/dmstore/backend/internal/product"
	"github.com/dmstore/backend/internal/settings"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		logx.L.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	products := product.NewPGRepo(pool)
	sets := settings.NewPGRepo(pool, pricing.ParseMode(cfg.DefaultPriceMode, pricing.ModeBoth))
	store := order.NewPGStore(pool)

	var mailer order.Mailer
	if cfg.SMTPUser != "" {
		m, err := mail.New(mail.Config{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			User:       cfg.SMTPUser,
			Pass:       cfg.SMTPPass,
			StoreEmail: cfg.StoreEmail,
			StoreName:  cfg.StoreName,
		})
		if err != nil {
			logx.L.Fatal("smtp setup", zap.Error(err))
		}
		mailer = m
	} else {
		logx.L.Warn("SMTP_USER not set, order notifications disabled")
	}

	svc := order.NewService(store, products, sets, mailer)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.CORS())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	{
		api.POST("/orders", createOrderHandler(svc))
		api.GET("/orders", listOrdersHandler(svc))
		api.GET("/orders/:id", getOrderHandler(svc))
		api.PUT("/orders/:id", updateOrderHandler(svc))
		api.PATCH("/orders/:id/status", updateOrderStatusHandler(svc))
		api.DELETE("/orders/:id", deleteOrderHandler(svc))

		api.GET("/products", listProductsHandler(products))
		api.GET("/products/:id", getProductHandler(products))
		api.POST("/products", createProductHandler(products))
		api.PUT("/products/:id", updateProductHandler(products))
		api.DELETE("/products/:id", deleteProductHandler(products))

		api.GET("/settings/catalog-price", getPriceModeHandler(sets))
		api.PUT("/settings/catalog-price", putPriceModeHandler(sets))
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		logx.L.Info("store-api listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.L.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logx.L.Error("shutdown", zap.Error(err))
	}
	logx.L.Info("store-api stopped")
}
