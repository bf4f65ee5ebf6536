package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whistlechain/coordinator/internal/apperr"
)

// respondErr renders any error through apperr's classification, falling
// back to 500 for errors this package doesn't recognize.
func respondErr(c *gin.Context, err error) {
	if ae, ok := apperr.As(err); ok {
		body := gin.H{"error": ae.Message, "kind": ae.Kind}
		if ae.Detail != nil {
			for k, v := range ae.Detail {
				body[k] = v
			}
		}
		c.JSON(apperr.StatusCode(ae.Kind), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
