package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/parkgazer/internal/api/geocoder"
	"github.com/langchou/parkgazer/internal/api/handlers"
	"github.com/langchou/parkgazer/internal/api/opendata"
	"github.com/langchou/parkgazer/internal/config"
	"github.com/langchou/parkgazer/internal/favorites"
	"github.com/langchou/parkgazer/internal/repository"
	"github.com/langchou/parkgazer/internal/service"
)

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 로거 초기화
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting Parkgazer", zap.String("port", cfg.ServerPort))

	// context 생성
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 데이터베이스 연결
	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	// 데이터베이스 마이그레이션
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	// Repository 생성
	lotRepo := repository.NewParkingLotRepository(db)

	// 외부 API 클라이언트 생성
	openDataClient := opendata.NewClient(cfg.OpenDataBaseURL, cfg.DatasetPath, cfg.SyncTimeout, logger)
	geoClient := geocoder.NewClient(cfg.KakaoRESTAPIKey, logger)
	if !geoClient.IsConfigured() {
		logger.Warn("Kakao api key not configured, geocode backfill disabled")
	}

	// 즐겨찾기 저장소 생성
	favStore, err := favorites.NewFileStore(cfg.FavoritesFile, logger)
	if err != nil {
		logger.Fatal("Failed to open favorites store", zap.Error(err))
	}
	defer favStore.Close()

	// 서비스 생성
	parkingService := service.NewParkingService(logger, lotRepo)
	syncService := service.NewSyncService(logger, openDataClient, geoClient, lotRepo)

	// HTTP 처리기 생성
	handler := handlers.NewHandler(logger, parkingService, syncService, favStore)

	// Gin 모드 설정
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 라우터 생성
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// 라우트 등록
	handler.RegisterRoutes(router)

	// HTTP 서버 시작
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 종료 신호 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 우아한 종료
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initLogger 로거 초기화
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// corsMiddleware CORS 미들웨어
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
