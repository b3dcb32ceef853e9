package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartcart-backend/config"
	"smartcart-backend/controllers"
	"smartcart-backend/database"
	"smartcart-backend/logger"
	"smartcart-backend/middleware"
	"smartcart-backend/realtime"
	"smartcart-backend/routes"
	"smartcart-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	if err := logger.Initialize(cfg.Env); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.ConnectWithConfig(cfg.MongoURI, cfg.MongoDBName); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			zap.L().Warn("Error closing MongoDB connection", zap.Error(err))
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx); err != nil {
		cancelIndex()
		zap.L().Fatal("Failed to ensure indexes", zap.Error(err))
	}
	cancelIndex()

	rdb, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	hub := realtime.NewHub(cfg.FrontendOrigin)
	defer hub.Close()

	qrStore := database.NewRedisQRStore(rdb)
	cartRepo := database.NewMongoCartRepository(database.DB)
	customerRepo := database.NewMongoCustomerRepository(database.DB)
	productRepo := database.NewMongoProductRepository(database.DB)
	employeeRepo := database.NewMongoEmployeeRepository(database.DB)
	paymentRepo := database.NewMongoPaymentRepository(database.DB)
	orderRepo := database.NewMongoOrderRepository(database.DB)

	gateway := services.NewRazorpayService(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	recommender := services.NewRecommenderClient(cfg.RecommenderURL)

	ctrl := routes.Controllers{
		QR:       controllers.NewQRController(qrStore, hub),
		Customer: controllers.NewCustomerController(customerRepo, cartRepo, cfg.JWTSecret),
		Cart:     controllers.NewCartController(cartRepo, productRepo, hub),
		Product:  controllers.NewProductController(rdb, recommender),
		Employee: controllers.NewEmployeeController(employeeRepo, cartRepo, hub, cfg.JWTSecret),
		Payment:  controllers.NewPaymentController(gateway, paymentRepo, productRepo, recommender),
		Order:    controllers.NewOrderController(cartRepo, productRepo, orderRepo),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.CORS(cfg.FrontendOrigin))

	routes.RegisterRoutes(r, ctrl, hub, qrStore, cfg.JWTSecret)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		zap.L().Info("Server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
	}
}
