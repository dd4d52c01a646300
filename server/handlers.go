package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialmux/cleanser/cleaner"
	"github.com/socialmux/cleanser/model"
	"github.com/socialmux/cleanser/sink"
)

// CleanRequest triggers one cleaning run through the admin API. Options are
// optional, zero values fall back to the orchestrator defaults.
type CleanRequest struct {
	Notification model.RawDataNotification `json:"notification" binding:"required"`
	Options      *model.CleaningOptions    `json:"options"`
}

type CleanBatchRequest struct {
	RawDataIds []string               `json:"rawDataIds" binding:"required"`
	Options    *model.CleaningOptions `json:"options"`
}

// CleanHandler runs the single-record pipeline synchronously and returns the
// CleaningResult. Fatal pipeline failures map onto http status by their
// classified kind.
func CleanHandler(orchestrator *cleaner.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CleanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		options := orchestrator.Options
		if req.Options != nil {
			options = req.Options.Normalize()
		}

		result, err := orchestrator.CleanWithOptions(c.Request.Context(), &req.Notification, options)
		if err != nil {
			c.JSON(statusForError(err), gin.H{
				"error": err.Error(),
				"kind":  string(cleaner.ClassifyError(err)),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// CleanBatchHandler runs the chunked batch pipeline. The response always has
// one result per requested id, failures included.
func CleanBatchHandler(orchestrator *cleaner.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CleanBatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		options := orchestrator.Options
		if req.Options != nil {
			options = req.Options.Normalize()
		}

		results := orchestrator.CleanBatch(c.Request.Context(), req.RawDataIds, options)
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

// HealthcheckHandler reports liveness plus the completion sink's health.
func HealthcheckHandler(completionSink sink.CompletionSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		sinkHealthy := completionSink != nil && completionSink.Healthy()
		status := http.StatusOK
		if !sinkHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"healthy":     sinkHealthy,
			"sinkHealthy": sinkHealthy,
		})
	}
}

func statusForError(err error) int {
	switch cleaner.ClassifyError(err) {
	case cleaner.ValidationError:
		return http.StatusBadRequest
	case cleaner.StorageError:
		return http.StatusBadGateway
	case cleaner.DuplicateError:
		return http.StatusConflict
	case cleaner.TimeoutError:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
