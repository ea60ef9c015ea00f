package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
)

const snapshotTimeLayout = "20060102T150405Z"

// exportRecords serializes all weather records and uploads them as one JSON
// object under the configured snapshot prefix.
func (h *Handler) exportRecords(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	records, err := h.weather.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("list weather records for export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]WeatherResponse, len(records))
	for i := range records {
		resp[i] = recordToResponse(records[i])
	}
	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		h.logger.WithError(err).Error("marshal snapshot failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	key := path.Join(h.keyPrefix, fmt.Sprintf("weather-%s.json", time.Now().UTC().Format(snapshotTimeLayout)))
	location, err := h.storage.Upload(c.Request.Context(), h.bucket, key, body)
	if err != nil {
		h.logger.WithError(err).Error("upload snapshot failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": location, "records": len(records)})
}

func (h *Handler) listSnapshots(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, h.keyPrefix)
	if err != nil {
		h.logger.WithError(err).Error("list snapshots failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]SnapshotResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) pruneSnapshots(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	deleted, err := h.storage.DeletePrefix(c.Request.Context(), h.bucket, h.keyPrefix)
	if err != nil {
		h.logger.WithError(err).Error("prune snapshots failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
