package api

import (
	"errors"
	"net/http"
	"strconv"

	"photomap/photo-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) PhotoDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	photoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Photo ID is not a valid integer",
			"requestID": requestID,
		})
		return
	}

	err = a.Deleter.Delete(c.Request.Context(), uint(photoID), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Photo not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})
			return
		}

		var stageErr *service.StageError
		if errors.As(err, &stageErr) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Failed to delete photo",
				"stage":     string(stageErr.Stage),
				"requestID": requestID,
			})

			zap.L().Error("Delete stage failed",
				zap.String("stage", string(stageErr.Stage)),
				zap.Error(err),
			)
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete photo", zap.Error(err))
		return
	}

	c.Status(http.StatusOK)
}
