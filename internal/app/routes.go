package app

import (
	"github.com/gorilla/mux"

	"edi-bridge/internal/handlers"
	"edi-bridge/internal/middleware"
	"edi-bridge/internal/mockerp"
)

// SetupRoutes configures all HTTP routes for the application. The simulated
// receiver is mounted only when one is provided.
func SetupRoutes(router *mux.Router, h *handlers.Handlers, receiver *mockerp.MockERP) {
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)

	h.RegisterRoutes(router)

	if receiver != nil {
		receiver.RegisterRoutes(router)
	}
}
