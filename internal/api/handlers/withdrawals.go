// Package handlers provides HTTP request handlers for the withdrawal daemon.
//
// This file implements the batch endpoints:
//
//   - POST /api/v1/withdrawals: start a batch from a JSON plan
//   - POST /api/v1/withdrawals/cancel: ask the running batch to stop
//   - GET /api/v1/withdrawals/status: engine counters and the last batch report
//
// Only one batch runs at a time. A submit while another batch is in flight is
// answered with 409 and leaves the running batch untouched.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/naucourse/chooser/internal/course"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/withdrawal"
)

// MaxPlanBytes bounds the request body of a submit.
const MaxPlanBytes = 1 << 20

// Engine is the part of withdrawal.Coordinator the handlers drive.
type Engine interface {
	Start(plan course.Plan, listener withdrawal.Listener) (string, bool)
	Cancel()
	Stats() withdrawal.Stats
}

// History remembers the tracker of the most recently accepted batch.
type History struct {
	mu   sync.RWMutex
	last *withdrawal.Tracker
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{}
}

// Record replaces the last tracker.
func (h *History) Record(t *withdrawal.Tracker) {
	h.mu.Lock()
	h.last = t
	h.mu.Unlock()
}

// Last returns the report of the most recent batch, or nil before the first.
func (h *History) Last() *withdrawal.Report {
	h.mu.RLock()
	t := h.last
	h.mu.RUnlock()

	if t == nil {
		return nil
	}
	r := t.Report()
	return &r
}

// SubmitResponse is returned for an accepted batch.
type SubmitResponse struct {
	Status  string `json:"status"`
	BatchID string `json:"batch_id"`
	Units   int    `json:"units"`
}

// StatusResponse describes the engine and the last batch.
type StatusResponse struct {
	Engine withdrawal.Stats   `json:"engine"`
	Last   *withdrawal.Report `json:"last,omitempty"`
}

// SubmitWithdrawal starts a batch from the JSON plan in the request body.
func SubmitWithdrawal(engine Engine, history *History) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxPlanBytes+1))
		if err != nil {
			logging.Warn("Withdrawal submit: failed to read body: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request body",
				"details": err.Error(),
			})
			return
		}
		if len(body) > MaxPlanBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Plan too large",
			})
			return
		}

		plan, err := course.ParsePlan(body, course.FormatJSON)
		if err != nil {
			logging.Warn("Withdrawal submit: %v", err)
			details := err.Error()
			if !errors.Is(err, course.ErrInvalidPlan) {
				details = "unreadable plan"
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid withdrawal plan",
				"details": details,
			})
			return
		}

		tracker := withdrawal.NewTracker()
		id, ok := engine.Start(plan, tracker)
		if !ok {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Batch in flight",
				"details": "another withdrawal batch is still running",
			})
			return
		}
		tracker.SetID(id)
		history.Record(tracker)

		c.JSON(http.StatusAccepted, SubmitResponse{
			Status:  "accepted",
			BatchID: id,
			Units:   plan.Len(),
		})
	}
}

// CancelWithdrawal requests cancellation of the running batch. It always
// answers 202; with no batch running the request is a no-op.
func CancelWithdrawal(engine Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := engine.Stats()
		if stats.Active {
			engine.Cancel()
			logging.Info("Withdrawal cancel requested for batch %s", logging.FormatBatchID(stats.BatchID))
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":   "cancel requested",
			"active":   stats.Active,
			"batch_id": stats.BatchID,
		})
	}
}

// WithdrawalStatus reports engine counters and the last batch report.
func WithdrawalStatus(engine Engine, history *History) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusResponse{
			Engine: engine.Stats(),
			Last:   history.Last(),
		})
	}
}
