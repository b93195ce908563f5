package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers serves /livez and /readyz. Readiness delegates to the
// storage ping wired in at startup; in memory mode there is nothing to
// check and Ready stays nil.
type HealthHandlers struct {
	Ready func() error
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.Status(http.StatusOK)
}
