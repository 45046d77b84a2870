package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"skincare_service/config"
	"skincare_service/internal/delivery"
	grpcHandler "skincare_service/internal/delivery/grpc"
	"skincare_service/internal/domain"
	"skincare_service/internal/middleware"
	"skincare_service/internal/repository"
	"skincare_service/internal/scraper"
	"skincare_service/internal/usecase"
	"skincare_service/pkg/db"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

const htmlIndexPageContent = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Skincare Service API</title></head>
<body>
    <h1>Skincare Service API Endpoints</h1>
    <h2>Products</h2>
    <ul>
        <li><code>POST /products</code> create, <code>GET /products?limit=&amp;offset=&amp;skin_issue=</code> list</li>
        <li><code>GET|PATCH|DELETE /products/{id}</code></li>
        <li><code>POST /products/scrape</code> with <code>{"urls": [...]}</code></li>
    </ul>
    <h2>Skin issues and analysis</h2>
    <ul>
        <li><code>GET /skin-issues</code>, <code>GET /skin-issues/{issue}</code>, <code>GET /skin-issues/{issue}/products</code></li>
        <li><code>POST /analysis</code> with <code>{"scores": {"acne": 0.7}}</code></li>
        <li><code>POST /recommendations</code> with <code>{"skin_issues": ["acne"], "product_count": 3, "min_rating": 4}</code></li>
        <li><code>POST /analysis/recommendations</code></li>
    </ul>
    <h2>Navigation</h2>
    <ul>
        <li><code>GET /navigation/screens</code>, <code>POST /navigation/routes</code></li>
    </ul>
    <p><code>GET /health</code>, <code>GET /metrics</code></p>
</body>
</html>
`

func serveIndexPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(htmlIndexPageContent))
}

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s' in config, using default 'info'. Error: %v", cfg.LogLevel, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting Skincare Service...")

	// --- Database Connection ---
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	if err := db.Migrate(context.Background(), database); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database connection established.")

	healthDeps := map[string]delivery.Pinger{"postgres": database}

	// --- Recommendation cache ---
	var cache domain.RecommendationCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		cache = repository.NewRedisRecommendationCache(rdb, cfg.CacheTTL, logger)
		healthDeps["redis"] = delivery.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Infof("Recommendation cache enabled at %s", cfg.RedisAddr)
	} else {
		cache = repository.NewNoopRecommendationCache()
	}

	// --- Dependency Injection ---
	productRepo := repository.NewPostgresProductRepository(database, logger)
	issueRepo, err := repository.NewSkinIssueRepository(logger)
	if err != nil {
		logger.Fatalf("Failed to load skin issue catalog: %v", err)
	}
	logger.Info("Repositories initialized.")

	clientCfg := scraper.DefaultClientConfig()
	clientCfg.Timeout = cfg.ScraperTimeout
	clientCfg.RPS = cfg.ScraperRPS
	clientCfg.MaxRetries = cfg.ScraperRetries
	httpClient := scraper.NewClient(clientCfg, logger)
	extractor := scraper.NewExtractor(httpClient, logger)
	searcher := scraper.NewSearcher(httpClient, scraper.SearchConfig{
		APIKey:   cfg.SearchAPIKey,
		EngineID: cfg.SearchEngineID,
	}, logger)

	analysisUseCase := usecase.NewAnalysisUseCase(logger)
	issueUseCase := usecase.NewSkinIssueUseCase(issueRepo, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, issueRepo, extractor, logger)
	recommendationUseCase := usecase.NewRecommendationUseCase(searcher, extractor, issueRepo, productUseCase, cache, analysisUseCase, logger)
	logger.Info("Use cases initialized.")

	metrics := middleware.NewMetrics()

	// --- HTTP ---
	if logLevel < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.CORSOrigins),
		metrics.Middleware(),
	)

	router.GET("/", serveIndexPage)
	router.GET("/metrics", metrics.Handler())
	delivery.NewHealthHandler(healthDeps, logger).RegisterRoutes(router)

	api := router.Group("")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: float64(cfg.RateLimitRPS),
		Burst:             cfg.RateLimitBurst,
	}))
	delivery.NewProductHandler(productUseCase, logger).RegisterRoutes(api)
	delivery.NewSkinHandler(issueUseCase, analysisUseCase, recommendationUseCase, logger).RegisterRoutes(api)
	delivery.NewNavigationHandler(logger).RegisterRoutes(api)
	logger.Info("API Routes registered.")

	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting HTTP server on port %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// --- gRPC ---
	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcPort, err)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(metrics.UnaryServerInterceptor()))
	grpcHandler.RegisterCatalogServer(grpcServer, grpcHandler.NewCatalogHandler(productUseCase, issueUseCase, recommendationUseCase, logger))
	go func() {
		logger.Infof("gRPC server listening on %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Warn("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Skincare Service shut down gracefully.")
}
