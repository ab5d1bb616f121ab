// Package app is the application served behind the adapter.
package app

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"azure-functions-adapter/pkg/adapter"
)

// 1x1 transparent PNG
var pixel, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

// EchoRequest is the body accepted by POST /api/echo
type EchoRequest struct {
	Message string `json:"message" binding:"required,max=280"`
	Repeat  int    `json:"repeat" binding:"omitempty,min=1,max=10"`
}

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// New builds the application. mode is the deployment mode handed to the adapter.
func New(mode string) *gin.Engine {
	gin.SetMode(ginMode(mode))

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/hello", hello)
		api.POST("/echo", echo)
		api.GET("/pixel.png", servePixel)
		api.GET("/whoami", whoami)
		api.GET("/mode", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"mode": adapter.ModeFromContext(c.Request.Context())})
		})
		api.GET("/session", func(c *gin.Context) {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie("session", "started", 3600, "/", "", true, true)
			c.SetCookie("theme", "dark", 0, "/", "", false, false)
			c.Status(http.StatusNoContent)
		})
	}

	return router
}

func ginMode(mode string) string {
	switch strings.ToLower(mode) {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func hello(c *gin.Context) {
	name := c.DefaultQuery("name", "world")
	c.String(http.StatusOK, "Hello, %s!", name)
}

func echo(c *gin.Context) {
	var req EchoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "Validation failed",
				"validation_errors": formatValidationErrors(errs),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "message": err.Error()})
		return
	}

	if req.Repeat == 0 {
		req.Repeat = 1
	}
	c.JSON(http.StatusOK, gin.H{"message": strings.Repeat(req.Message, req.Repeat)})
}

func servePixel(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, mimetype.Detect(pixel).String(), pixel)
}

func whoami(c *gin.Context) {
	lc, _ := adapter.LoadContextFrom(c.Request.Context()).(*LoadContext)
	if lc == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load context unavailable"})
		return
	}

	resp := gin.H{
		"invocation_id": lc.InvocationID,
		"function":      lc.FunctionName,
		"anonymous":     lc.Claims == nil,
	}
	if lc.Claims != nil {
		resp["subject"] = lc.Claims.Subject
		resp["name"] = lc.Claims.Name
		resp["roles"] = lc.Claims.Roles
	}
	c.JSON(http.StatusOK, resp)
}

func formatValidationErrors(errs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, fe := range errs {
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fe.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out = append(out, ValidationError{Field: fe.Field(), Tag: fe.Tag(), Message: message})
	}
	return out
}
