package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/infrastructure/scheduler"
)

// JobHandler lets operators run the daily alert job on demand instead of
// waiting for the scheduled hour.
type JobHandler struct {
	trigger  *scheduler.DailyTrigger
	theaters identity.TheaterRepository
}

func NewJobHandler(trigger *scheduler.DailyTrigger, theaters identity.TheaterRepository) *JobHandler {
	return &JobHandler{trigger: trigger, theaters: theaters}
}

// POST /api/v1/jobs/daily-alerts
// Runs the daily alert scan for the caller's theater.
func (h *JobHandler) TriggerDailyAlerts(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	theater, err := h.theaters.FindByID(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.trigger.TriggerNow(c.Request.Context(), theater); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"triggered": true})
}
