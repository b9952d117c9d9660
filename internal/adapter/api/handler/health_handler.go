package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ratpatrol/internal/infrastructure/kvstore"
)

const healthProbeKey = "rat-health-probe"

type HealthHandler struct {
	store  kvstore.Store
	driver string
}

var healthHandler *HealthHandler

func NewHealthHandler(store kvstore.Store, driver string) *HealthHandler {
	return &HealthHandler{
		store:  store,
		driver: driver,
	}
}

func SetupHealthHandler(store kvstore.Store, driver string) {
	healthHandler = NewHealthHandler(store, driver)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

// CheckHealth reports the server as up and the store as reachable or
// degraded. It always answers 200 since reads fall back to sample data.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	// Probe the store with a read; a missing key still means reachable
	storeStatus := "ok"
	if _, err := h.store.Get(ctx, healthProbeKey); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		storeStatus = "degraded"
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"store":  storeStatus,
		"driver": h.driver,
		"time":   time.Now().Format(time.RFC3339),
	})
}
