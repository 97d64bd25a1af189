package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PhotoFetchPublic serves the public gallery. No auth needed, private
// photos are filtered out inside the query itself
func (a *API) PhotoFetchPublic(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	records, err := a.Gallery.ListPublic(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch public gallery", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, records)
}
