package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate only exists to run the JWT middleware, reaching it means
// the token was fine
func (a *API) Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
