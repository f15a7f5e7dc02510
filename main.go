package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/archidiocese/priestdb/internal/appointments"
	"github.com/archidiocese/priestdb/internal/config"
	"github.com/archidiocese/priestdb/internal/database"
	"github.com/archidiocese/priestdb/internal/formations"
	"github.com/archidiocese/priestdb/internal/homeaddress"
	"github.com/archidiocese/priestdb/internal/priests"
	"github.com/archidiocese/priestdb/internal/print"
	"github.com/archidiocese/priestdb/internal/relations"
	"github.com/archidiocese/priestdb/internal/storage"
	"github.com/archidiocese/priestdb/pkg/logger"
	"github.com/archidiocese/priestdb/pkg/metrics"
	"github.com/archidiocese/priestdb/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestCounter())

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// The registry does not accept requests until the store is up; the
	// connect loop retries on a fixed interval indefinitely.
	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.RetryInterval)
	if err != nil {
		logger.Fatalf("mongo connect aborted: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB.Database)

	// Photo storage: MinIO when an endpoint is configured, local disk otherwise.
	var photos storage.Store
	if cfg.MinIO.Endpoint != "" {
		photos, err = storage.NewMinIOStore(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			logger.Fatalf("minio init failed: %v", err)
		}
		logger.Infof("photos stored in MinIO bucket %q at %s", cfg.MinIO.Bucket, cfg.MinIO.Endpoint)
	} else {
		photos, err = storage.NewLocalStore(cfg.Uploads.Dir)
		if err != nil {
			logger.Fatalf("upload dir init failed: %v", err)
		}
		logger.Infof("photos stored under %s", cfg.Uploads.Dir)
	}

	priestRepo := priests.NewMongoRepository(db.Collection("priests"))
	relationRepo := relations.NewMongoRepository(db.Collection("relations"))
	formationRepo := formations.NewMongoRepository(db.Collection("formations"))
	appointmentRepo := appointments.NewMongoRepository(db.Collection("appointments"))
	addressRepo := homeaddress.NewMongoRepository(db.Collection("homeAddress"))

	priestSvc := priests.NewService(priestRepo, formationRepo, appointmentRepo, relationRepo, photos)

	priests.NewHandler(priestSvc, addressRepo).Register(r.Group("/api/priests"))
	relations.NewHandler(relationRepo).Register(r.Group("/api/relations"))
	formations.NewHandler(formationRepo).Register(r.Group("/api/formations"))
	appointments.NewHandler(appointmentRepo).Register(r.Group("/api/appointments"))
	homeaddress.NewHandler(addressRepo).Register(r.Group("/api/homeAddress"))
	print.NewHandler(priestRepo, formationRepo, appointmentRepo, relationRepo).Register(r.Group("/api/print"))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only while the store answers pings
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{}
		ready := true

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			deps["mongo"] = false
			ready = false
		} else {
			deps["mongo"] = true
		}
		if cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// uploaded photos are served back through the storage backend, not
	// straight off the filesystem, so the MinIO backend works transparently
	r.GET("/uploads/:filename", func(c *gin.Context) {
		name := c.Param("filename")
		rc, err := photos.Open(c.Request.Context(), name)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		if err != nil {
			logger.Errorf("opening upload %s: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading file"})
			return
		}
		defer rc.Close()
		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
	})

	// everything else falls through to the SPA bundle when one is built
	distDir := cfg.Frontend.DistDir
	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/uploads/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		index := filepath.Join(distDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.String(http.StatusOK, "Frontend build missing. Run the frontend build, or use the API under /api.")
			return
		}
		asset := filepath.Join(distDir, filepath.Clean("/"+path))
		if info, err := os.Stat(asset); err == nil && !info.IsDir() {
			c.File(asset)
			return
		}
		c.File(index)
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("priest registry listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutdown signal received, draining")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
