package app

import (
	"github.com/gorilla/mux"

	"edi-bridge/internal/handlers"
	"edi-bridge/internal/mockerp"
	"edi-bridge/internal/server"
)

// RunServer builds the HTTP surface and returns the server, not yet started.
func (app *App) RunServer() *server.Server {
	h := handlers.New(app.Orchestrator, app.Store, app.Submitter, app.Config, nil)

	var receiver *mockerp.MockERP
	if app.Config.MockERPEnabled {
		receiver = mockerp.New(nil)
		app.Logger.Info("Simulated receiver mounted under /api/erp")
	}

	router := mux.NewRouter()
	SetupRoutes(router, h, receiver)

	return server.New(router, app.Config.Port)
}
