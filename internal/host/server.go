// Package host implements the Azure Functions custom handler process: it
// receives invoke payloads from the Functions host and answers with invoke
// responses produced by the adapter.
package host

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"azure-functions-adapter/internal/config"
	"azure-functions-adapter/internal/middleware"
	"azure-functions-adapter/pkg/adapter"
	"azure-functions-adapter/pkg/azure"
)

const shutdownTimeout = 30 * time.Second

// Server serves invoke requests for every HTTP triggered function
type Server struct {
	cfg     *config.Config
	handler adapter.RequestHandler
	router  *gin.Engine
}

// NewServer creates the custom handler server
func NewServer(cfg *config.Config, handler adapter.RequestHandler) *Server {
	s := &Server{cfg: cfg, handler: handler}

	router := gin.New()
	router.Use(middleware.InvocationID())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"platform":  config.GetPlatformConfig().Platform,
		})
	})

	router.POST("/:function", middleware.RateLimiter(cfg.Limit.RequestsPerSecond, cfg.Limit.Burst), s.invoke)

	s.router = router
	return s
}

// Handler returns the HTTP handler the Functions host talks to
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) invoke(c *gin.Context) {
	function := c.Param("function")
	c.Set(middleware.FunctionKey, function)

	var payload azure.InvokeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.reject(c, http.StatusBadRequest, gin.ErrorTypeBind, err)
		return
	}

	req, err := payload.HTTPRequest(s.cfg.Bindings.Request)
	if err != nil {
		s.reject(c, http.StatusBadRequest, gin.ErrorTypeBind, err)
		return
	}

	sys, err := payload.Sys()
	if err != nil {
		s.reject(c, http.StatusBadRequest, gin.ErrorTypeBind, err)
		return
	}

	actx := &azure.Context{
		InvocationID: c.GetString(middleware.InvocationIDKey),
		FunctionName: function,
		Sys:          sys,
		Metadata:     payload.Metadata,
		Log:          middleware.Logger(c),
	}

	res, err := s.handler(c.Request.Context(), actx, req)
	if err != nil {
		s.reject(c, http.StatusInternalServerError, gin.ErrorTypePrivate, err)
		return
	}

	c.JSON(http.StatusOK, azure.NewInvokeResponse(s.cfg.Bindings.Response, res, nil))
}

// reject reports a failed invocation. The Functions host treats any non-200
// reply as a failure and answers the client itself.
func (s *Server) reject(c *gin.Context, status int, errType gin.ErrorType, err error) {
	_ = c.Error(err).SetType(errType)
	c.JSON(status, &azure.InvokeResponse{Logs: []string{err.Error()}})
}

// Run listens on the configured port until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logrus.WithField("port", s.cfg.Port).Info("Custom handler listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down custom handler...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
