package rpc

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pairup/pairup/internal/activity"
	"github.com/pairup/pairup/internal/history"
	"github.com/pairup/pairup/internal/pairing"
)

func healthCheck(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:        "ok",
			Timestamp:     pairing.FormatTimestamp(time.Now()),
			UptimeSeconds: time.Since(as.StartedAt).Seconds(),
			Services:      map[string]string{},
		}

		if as.Health != nil {
			report := as.Health.RuntimeReport(c.Request.Context())
			resp.Services = report.Services
			if !report.Healthy {
				resp.Status = "unhealthy"
				c.JSON(http.StatusServiceUnavailable, resp)
				return
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

func getUsers(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := bindRequest(c, &EmptyRequest{}); err != nil {
			writeError(c, as.Logger, err)
			return
		}

		active, err := as.Pairing.ListActiveUsers(c.Request.Context())
		if err != nil {
			writeError(c, as.Logger, err)
			return
		}
		for _, u := range active {
			if err := u.Validate(); err != nil {
				writeInvalidResponse(c, as.Logger, err)
				return
			}
		}

		c.JSON(http.StatusOK, active)
	}
}

func generatePairing(as *AppState) gin.HandlerFunc {
	return pairingHandler(as, as.Pairing.GeneratePairing)
}

func generateAndSavePairing(as *AppState) gin.HandlerFunc {
	return pairingHandler(as, as.Pairing.GenerateAndSavePairing)
}

// regenerateLatestPairing replies null when there is no history
func regenerateLatestPairing(as *AppState) gin.HandlerFunc {
	return pairingHandler(as, as.Pairing.RegenerateLatestPairing)
}

func pairingHandler(as *AppState, produce func(ctx context.Context) (*pairing.Pairing, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := bindRequest(c, &EmptyRequest{}); err != nil {
			writeError(c, as.Logger, err)
			return
		}

		p, err := produce(c.Request.Context())
		if err != nil {
			writeError(c, as.Logger, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusOK, nil)
			return
		}
		if err := p.Validate(); err != nil {
			writeInvalidResponse(c, as.Logger, err)
			return
		}

		c.JSON(http.StatusOK, p)
	}
}

func getPairingHistory(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := bindRequest(c, &EmptyRequest{}); err != nil {
			writeError(c, as.Logger, err)
			return
		}

		records, err := as.Pairing.GetPairingHistory(c.Request.Context())
		if err != nil {
			writeError(c, as.Logger, err)
			return
		}
		if records == nil {
			records = []*history.Record{}
		}
		for _, record := range records {
			if err := record.Validate(); err != nil {
				writeInvalidResponse(c, as.Logger, err)
				return
			}
		}

		c.JSON(http.StatusOK, records)
	}
}

func getLatestPairing(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := bindRequest(c, &EmptyRequest{}); err != nil {
			writeError(c, as.Logger, err)
			return
		}

		record, err := as.Pairing.GetLatestPairing(c.Request.Context())
		if err != nil {
			writeError(c, as.Logger, err)
			return
		}
		if record == nil {
			c.JSON(http.StatusOK, nil)
			return
		}
		if err := record.Validate(); err != nil {
			writeInvalidResponse(c, as.Logger, err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

func markCompleted(as *AppState) gin.HandlerFunc {
	return completionHandler(as, as.Pairing.MarkCompleted)
}

func undoCompleted(as *AppState) gin.HandlerFunc {
	return completionHandler(as, as.Pairing.UndoCompleted)
}

// completionHandler replies {record: null, reminderIdentifiers: []} for an
// unknown id; the toggle itself never fails
func completionHandler(as *AppState, toggle func(ctx context.Context, id int64) (*pairing.RecordWithReminders, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordIDRequest
		if err := bindRequest(c, &req); err != nil {
			writeError(c, as.Logger, err)
			return
		}
		c.Set(recordIDKey, *req.ID)

		result, err := toggle(c.Request.Context(), *req.ID)
		if err != nil {
			writeError(c, as.Logger, err)
			return
		}
		if err := result.Validate(); err != nil {
			writeInvalidResponse(c, as.Logger, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func getReminders(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := bindRequest(c, &EmptyRequest{}); err != nil {
			writeError(c, as.Logger, err)
			return
		}

		reminders, err := as.Pairing.GetReminders(c.Request.Context())
		if err != nil {
			writeError(c, as.Logger, err)
			return
		}

		c.JSON(http.StatusOK, RemindersResponse{ReminderIdentifiers: reminders})
	}
}

func listActivity(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListActivityRequest
		if err := bindRequest(c, &req); err != nil {
			writeError(c, as.Logger, err)
			return
		}

		if as.Activity == nil {
			c.JSON(http.StatusOK, []*activity.Entry{})
			return
		}

		limit := 0
		if req.Limit != nil {
			limit = *req.Limit
		}
		entries, err := as.Activity.ListRecent(c.Request.Context(), limit)
		if err != nil {
			writeError(c, as.Logger, err)
			return
		}

		c.JSON(http.StatusOK, entries)
	}
}
