package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"weather-api/internal/auth"
	"weather-api/internal/domain"
	"weather-api/internal/repository"
	"weather-api/internal/service"
	"weather-api/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	weather   service.WeatherService
	users     service.UserService
	storage   storage.Service
	bucket    string
	keyPrefix string
	jwtSecret string
	tokenTTL  time.Duration
	logger    *logrus.Logger
}

func NewHandler(
	weather service.WeatherService,
	users service.UserService,
	store storage.Service,
	bucket, keyPrefix string,
	jwtSecret string,
	tokenTTL time.Duration,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		weather:   weather,
		users:     users,
		storage:   store,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestIDMiddleware(), requestLogger(h.logger))

	router.GET("/", h.root)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/login", h.login)
	router.GET("/weather", h.listRecords)

	authed := router.Group("/", auth.RequireAuth(h.jwtSecret))
	{
		authed.POST("/change_password", h.changePassword)
		authed.POST("/weather", h.createRecord)
		authed.PUT("/weather", h.updateRecord)
		authed.DELETE("/weather/:id", h.deleteRecord)
		authed.POST("/weather/export", h.exportRecords)
		authed.GET("/snapshots", h.listSnapshots)
		authed.DELETE("/snapshots", h.pruneSnapshots)
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type WeatherRequest struct {
	CityName string `json:"city_name" binding:"required"`
	Date     string `json:"date" binding:"required"`
	// pointer so an explicit 0.0 passes required validation
	Temperature *float64 `json:"temperature" binding:"required"`
}

type WeatherUpdateRequest struct {
	ID          int64    `json:"id" binding:"required"`
	CityName    string   `json:"city_name" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Temperature *float64 `json:"temperature" binding:"required"`
}

type WeatherResponse struct {
	ID          int64   `json:"id"`
	CityName    string  `json:"city_name"`
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
}

type SnapshotResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Weather App API",
		"version": "1.0.0",
	})
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		h.logger.WithError(err).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := auth.IssueToken(h.jwtSecret, user.Username, h.tokenTTL)
	if err != nil {
		h.logger.WithError(err).Error("issue token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}

func (h *Handler) changePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := c.GetString(auth.ContextUsername)
	err := h.users.ChangePassword(c.Request.Context(), username, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "password updated successfully"})
	case errors.Is(err, service.ErrSamePassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrEmptyPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
	default:
		h.logger.WithError(err).Error("change password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) listRecords(c *gin.Context) {
	records, err := h.weather.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("list weather records failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]WeatherResponse, len(records))
	for i := range records {
		resp[i] = recordToResponse(records[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createRecord(c *gin.Context) {
	var req WeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	record, err := h.weather.Create(c.Request.Context(), req.CityName, date, *req.Temperature)
	if err != nil {
		h.logger.WithError(err).Error("create weather record failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, recordToResponse(*record))
}

func (h *Handler) updateRecord(c *gin.Context) {
	var req WeatherUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	record, err := h.weather.Update(c.Request.Context(), &domain.WeatherRecord{
		ID:          req.ID,
		CityName:    req.CityName,
		Date:        date,
		Temperature: *req.Temperature,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "weather record not found"})
			return
		}
		h.logger.WithError(err).Error("update weather record failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, recordToResponse(*record))
}

func (h *Handler) deleteRecord(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	if err := h.weather.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "weather record not found"})
			return
		}
		h.logger.WithError(err).Error("delete weather record failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "weather record deleted successfully", "id": id})
}

func recordToResponse(record domain.WeatherRecord) WeatherResponse {
	return WeatherResponse{
		ID:          record.ID,
		CityName:    record.CityName,
		Date:        record.Date.Format(domain.DateLayout),
		Temperature: record.Temperature,
	}
}

func objectToResponse(obj storage.ObjectInfo) SnapshotResponse {
	resp := SnapshotResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
