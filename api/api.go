// Package api exposes the HTTP endpoint new personal logs are ingested through.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bububa/lifelog-agent/components/semantic"
)

// Ingester stores personal logs
type Ingester interface {
	Add(ctx context.Context, entry semantic.Entry) (string, error)
}

var _ Ingester = (*semantic.Service)(nil)

// AddEmbeddingRequest is the payload of POST /add_embedding
type AddEmbeddingRequest struct {
	Text      string    `json:"text" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	LogID     string    `json:"log_id,omitempty"`
	Date      string    `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Embedding []float64 `json:"embedding,omitempty"`
}

type AddEmbeddingResponse struct {
	Status string `json:"status"`
	LogID  string `json:"log_id"`
}

// Server serves the ingestion API
type Server struct {
	ingester Ingester
	validate *validator.Validate
	logger   zerolog.Logger
	router   *gin.Engine
}

func NewServer(ingester Ingester, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	ret := &Server{
		ingester: ingester,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		router:   gin.New(),
	}
	ret.router.Use(gin.Recovery(), RequestLogger(logger))
	ret.router.GET("/health", ret.health)
	ret.router.POST("/add_embedding", ret.addEmbedding)
	return ret
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("ingestion api listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) addEmbedding(c *gin.Context) {
	var req AddEmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logID, err := s.ingester.Add(c.Request.Context(), semantic.Entry{
		ID:        req.LogID,
		Text:      req.Text,
		UserID:    req.UserID,
		Date:      req.Date,
		Embedding: req.Embedding,
	})
	if errors.Is(err, semantic.ErrDimensionMismatch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("store embedding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, AddEmbeddingResponse{Status: "ok", LogID: logID})
}

// RequestLogger logs every request through zerolog
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}
