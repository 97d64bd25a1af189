package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Changes returns the current data version. Clients remember the last
// value they rendered against and refetch their lists when it moves
func (a *API) Changes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": a.Refresh.Version(),
	})
}
