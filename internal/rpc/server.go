package rpc

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pairup/pairup/internal/activity"
	"github.com/pairup/pairup/internal/health"
	"github.com/pairup/pairup/internal/pairing"
)

const rpcPrefix = "/rpc"

// AppState holds the services the handlers call into
type AppState struct {
	Pairing   pairing.PairingManager
	Activity  *activity.Recorder
	Health    *health.Manager
	Logger    *zap.Logger
	StartedAt time.Time
}

// NewRouter builds the HTTP handler. The caller picks the gin mode.
func NewRouter(as *AppState, allowedOrigins []string) *gin.Engine {
	if as.Logger == nil {
		as.Logger = zap.NewNop()
	}
	if as.StartedAt.IsZero() {
		as.StartedAt = time.Now()
	}

	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(as.Logger))
	router.Use(corsMiddleware(allowedOrigins))
	router.Use(RequestLoggerMiddleware(as.Logger))

	router.GET("/health", healthCheck(as))

	rpc := router.Group(rpcPrefix)
	rpc.Use(ActivityMiddleware(as))
	{
		rpc.POST("/health", healthCheck(as))
		rpc.POST("/getUsers", getUsers(as))
		rpc.POST("/generatePairing", generatePairing(as))
		rpc.POST("/generateAndSavePairing", generateAndSavePairing(as))
		rpc.POST("/getPairingHistory", getPairingHistory(as))
		rpc.POST("/getLatestPairing", getLatestPairing(as))
		rpc.POST("/regenerateLatestPairing", regenerateLatestPairing(as))
		rpc.POST("/markCompleted", markCompleted(as))
		rpc.POST("/undoCompleted", undoCompleted(as))
		rpc.POST("/getReminders", getReminders(as))
		rpc.POST("/listActivity", listActivity(as))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})

	return router
}
