// Package summaries holds the content-analysis and history endpoints. The
// AI call happens for any caller; a history record is written only when the
// session identifies a logged-in user.
package summaries

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/bridgeapp/bridge/internal/apperr"
	"github.com/bridgeapp/bridge/internal/auth"
	"github.com/bridgeapp/bridge/internal/gateway"
	"github.com/bridgeapp/bridge/internal/models"
	"github.com/bridgeapp/bridge/internal/store"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type summarizeRequest struct {
	Text string `json:"text"`
}

type describeRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

type analyzeRequest struct {
	FileData string `json:"fileData"`
	MimeType string `json:"mimeType"`
}

// SummarizeHandler sends text through the gateway and records the result
// for logged-in callers.
func SummarizeHandler(gen gateway.Generator, summaries store.SummaryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req summarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		result, err := gen.SummarizeText(c.Request.Context(), req.Text)
		if err != nil {
			writeError(c, err)
			return
		}

		if !persist(c, summaries, models.KindText, req.Text, result) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"summary": result.Text})
	}
}

// DescribeHandler sends a base64 image through the gateway.
func DescribeHandler(gen gateway.Generator, summaries store.SummaryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req describeRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
			return
		}

		data, err := decodeBase64(req.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid base64 image"})
			return
		}

		result, err := gen.DescribeImage(c.Request.Context(), data, req.MimeType)
		if err != nil {
			writeError(c, err)
			return
		}

		if !persist(c, summaries, models.KindImage, "", result) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"description": result.Text})
	}
}

// AnalyzeFileHandler routes a base64 file (PDF, audio, or anything else)
// through the gateway's mime-specific prompt paths.
func AnalyzeFileHandler(gen gateway.Generator, summaries store.SummaryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.FileData == "" || req.MimeType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
			return
		}

		data, err := decodeBase64(req.FileData)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid base64 file data"})
			return
		}

		result, err := gen.AnalyzeFile(c.Request.Context(), data, req.MimeType)
		if err != nil {
			writeError(c, err)
			return
		}

		if !persist(c, summaries, models.KindForMime(req.MimeType), "", result) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"result": result.Text})
	}
}

// HistoryHandler lists the caller's summaries, newest first.
func HistoryHandler(summaries store.SummaryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You must log in!"})
			return
		}

		records, err := summaries.ListByUser(userID)
		if err != nil {
			writeError(c, err)
			return
		}
		if records == nil {
			records = []models.Summary{}
		}
		c.JSON(http.StatusOK, records)
	}
}

// DeleteHandler removes one of the caller's summaries and returns it.
// Records owned by someone else are reported as not found.
func DeleteHandler(summaries store.SummaryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You must log in!"})
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found or not authorized"})
			return
		}

		deleted, err := summaries.DeleteOwned(userID, uint(id))
		if err != nil {
			if err == store.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found or not authorized"})
				return
			}
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, deleted)
	}
}

// persist records the interaction for logged-in callers. It reports false
// after writing an error response.
func persist(c *gin.Context, summaries store.SummaryStore, kind models.SummaryKind, input string, result *gateway.Result) bool {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return true
	}

	metadata, err := json.Marshal(result)
	if err != nil {
		metadata = nil
	}

	summary := &models.Summary{
		UserID:       userID,
		Kind:         kind,
		OriginalText: kind.Label(input),
		SummaryText:  result.Text,
		Metadata:     datatypes.JSON(metadata),
	}
	if err := summaries.Create(summary); err != nil {
		slog.Error("Failed to save summary", "user_id", userID, "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save summary"})
		return false
	}
	return true
}

// decodeBase64 accepts raw base64 or a data URL and returns the payload
// bytes.
func decodeBase64(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ";base64,"); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(payload)
}

func writeError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": apperr.ClientMessage(err)})
}
