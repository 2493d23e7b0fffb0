// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ardanlabs/canvas/app/services/canvas/handlers/v1/private"
	"github.com/ardanlabs/canvas/app/services/canvas/handlers/v1/public"
	"github.com/ardanlabs/canvas/foundation/canvas/state"
	"github.com/ardanlabs/canvas/foundation/events"
	"github.com/ardanlabs/canvas/foundation/nameservice"
	"github.com/ardanlabs/canvas/foundation/web"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Hub
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/config", pbl.Config)
	app.Handle(http.MethodGet, version, "/pixel/:x/:y", pbl.Pixel)
	app.Handle(http.MethodGet, version, "/pixels/:x/:y/:width/:height", pbl.Pixels)
	app.Handle(http.MethodGet, version, "/sample", pbl.Sample)
	app.Handle(http.MethodPost, version, "/op", pbl.SubmitOperation)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/settings", prv.Settings)
	app.Handle(http.MethodPost, version, "/settings", prv.UpdateSettings)
}
