package bridge

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/bridgectl/internal/observability"
)

const httpShutdownTimeout = 5 * time.Second

// HTTPRouter serves health, readiness, status, suggestions and prometheus
// metrics.
func (s *Service) HTTPRouter() *gin.Engine {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(s.started).String(),
		})
	})
	// not ready while a full reload is swapping state
	r.GET("/ready", func(c *gin.Context) {
		status := http.StatusOK
		if s.Reloading() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": status == http.StatusOK, "generation": s.Status().Generation})
	})
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Status())
	})
	r.GET("/suggestions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"suggestions": s.Suggestions()})
	})
	r.GET("/suggestions/:command", func(c *gin.Context) {
		desc, ok := s.Suggestion(c.Param("command"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown command"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"command": c.Param("command"), "description": desc})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Service) serveHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.HTTPRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", addr).Msg("bridge.http listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
