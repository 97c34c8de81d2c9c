package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/api"
	"github.com/sanosuguru/go-parking-reservation/internal/api/handler"
	custommw "github.com/sanosuguru/go-parking-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/config"
	"github.com/sanosuguru/go-parking-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-parking-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-parking-reservation/internal/worker"
)

const ratingRefreshInterval = 10 * time.Minute

func main() {
	// .env は存在すれば読み込む（本番では環境変数を直接使う）
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("設定が不正です", zap.Error(err))
	}

	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	// PostgreSQL接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続失敗", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := postgres.Ping(ctx, db); err != nil {
		cancel()
		logger.Fatal("データベース疎通確認失敗", zap.Error(err))
	}
	cancel()

	// マイグレーション
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーション失敗", zap.Error(err))
	}

	// Redis接続
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		cancel()
		logger.Fatal("Redis疎通確認失敗", zap.Error(err))
	}
	cancel()

	// リポジトリとサービス
	txManager := postgres.NewTxManager(db)
	reservationRepo := postgres.NewReservationRepository(db)
	slotRepo := postgres.NewSlotRepository(db)
	userRepo := postgres.NewUserRepository(db)
	lockManager := redisinfra.NewLockManager(redisClient)
	ratingCache := redisinfra.NewRatingCache(redisClient)

	bookingService := application.NewBookingService(
		txManager, reservationRepo, slotRepo, userRepo,
		lockManager, ratingCache, m,
		cfg.Policy.CancellationGraceDays,
	)
	tokenService := application.NewAccessTokenService(&cfg.Gate, bookingService, m)

	// Echoセットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	// ルーティング
	reservationHandler := handler.NewReservationHandler(bookingService, tokenService)
	gateHandler := handler.NewGateHandler(tokenService)
	parkingHandler := handler.NewParkingHandler(bookingService)
	healthHandler := handler.NewHealthHandler()

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations", reservationHandler.History)
	v1.PUT("/reservations/cancel", reservationHandler.Cancel)
	v1.POST("/reservations/:id/rating", reservationHandler.Rate)
	v1.POST("/reservations/qr", reservationHandler.QRCode)
	v1.POST("/gate/open", gateHandler.Open)
	v1.GET("/parkings/:id/rating", parkingHandler.Rating)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	// 評価キャッシュの定期更新ワーカー
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	ratingRefresher := worker.NewParkingRatingRefresher(bookingService, ratingRefreshInterval)
	go ratingRefresher.Start(workerCtx)

	// サーバー起動
	go func() {
		addr := ":" + cfg.Server.Port
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	ratingRefresher.Stop()
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
