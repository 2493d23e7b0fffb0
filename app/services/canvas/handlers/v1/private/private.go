// Package private maintains the group of handlers for operator access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ardanlabs/canvas/business/web/errs"
	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/state"
	"github.com/ardanlabs/canvas/foundation/web"
)

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// UpdateSettings applies a signed fee or tax change. Only an operation
// signed by the genesis creator is accepted by the core.
func (h Handlers) UpdateSettings(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode validates the operation signature and method through the
	// SignedOp validate hook.
	var so database.SignedOp
	if err := web.Decode(r, &so); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	from, err := so.FromAccount()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("update settings", "traceid", v.TraceID, "from", from, "method", so.Method, "value", so.Value)

	switch so.Method {
	case database.OpSetMintFee:
		err = h.State.UpdateMintFee(from, so.Value)

	case database.OpSetTaxPerDay:
		err = h.State.UpdateTaxPerDay(from, so.Value)

	default:
		return errs.NewTrusted(fmt.Errorf("method %q not accepted on the private host", so.Method), http.StatusBadRequest)
	}

	if err != nil {
		if errors.Is(err, state.ErrUnauthorized) {
			return errs.NewTrusted(err, http.StatusForbidden)
		}
		return err
	}

	resp := struct {
		Status   string            `json:"status"`
		Settings database.Settings `json:"settings"`
	}{
		Status:   "committed",
		Settings: h.State.QuerySettings(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Settings returns the current economic settings.
func (h Handlers) Settings(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.QuerySettings(), http.StatusOK)
}
