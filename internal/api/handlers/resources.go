package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/naucourse/chooser/internal/resources"
)

// HandleResources reports a snapshot of the daemon process and its worker
// pool. pool may be nil, in which case the snapshot has no pool gauges.
func HandleResources(pool resources.PoolGauge, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, resources.Gather(startTime, pool))
	}
}
