// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ardanlabs/canvas/business/sys/validate"
	"github.com/ardanlabs/canvas/business/web/errs"
	"github.com/ardanlabs/canvas/foundation/canvas/database"
	"github.com/ardanlabs/canvas/foundation/canvas/state"
	"github.com/ardanlabs/canvas/foundation/events"
	"github.com/ardanlabs/canvas/foundation/nameservice"
	"github.com/ardanlabs/canvas/foundation/web"
)

// Handlers manages the set of canvas ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Hub
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Subscribe()
	defer h.Evts.Unsubscribe(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitOperation applies a signed wallet operation to the ledger.
func (h Handlers) SubmitOperation(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode validates the operation signature and method through the
	// SignedOp validate hook.
	var so submitOp
	if err := web.Decode(r, &so); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	from, err := so.FromAccount()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("apply op", "traceid", v.TraceID, "from", from, "method", so.Method, "pos", so.Pos, "sig", so.SignatureString())

	payout, err := h.apply(from, so)
	if err != nil {
		return toTrusted(err)
	}

	resp := opResult{
		Status: "committed",
		Payout: payout,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// apply dispatches the operation to the core. Methods that require a
// payment reject the request before the core sees it when none is attached.
func (h Handlers) apply(from database.AccountID, so submitOp) (*state.Payout, error) {
	var pay *state.Payment
	if so.Payment != nil {
		if err := validate.Check(*so.Payment); err != nil {
			return nil, err
		}

		p, err := so.Payment.toStatePayment()
		if err != nil {
			return nil, errs.NewTrusted(err, http.StatusBadRequest)
		}
		pay = &p
	}

	needPay := func() (state.Payment, error) {
		if pay == nil {
			return state.Payment{}, fmt.Errorf("method %q requires a payment: %w", so.Method, state.ErrInvalidPayment)
		}
		return *pay, nil
	}

	switch so.Method {
	case database.OpAllocate:
		p, err := needPay()
		if err != nil {
			return nil, err
		}
		return nil, h.State.AllocatePixels(from, so.Value, p)

	case database.OpMint:
		p, err := needPay()
		if err != nil {
			return nil, err
		}
		return nil, h.State.MintPixel(from, so.Pos, so.Color, so.TermDays, so.Price, p)

	case database.OpBuy:
		p, err := needPay()
		if err != nil {
			return nil, err
		}
		return h.State.BuyPixel(from, so.Pos, so.Color, so.TermDays, so.Price, p)

	case database.OpUpdateColor:
		return nil, h.State.UpdatePixelColor(from, so.Pos, so.Color)

	case database.OpUpdateTerm:
		return h.State.UpdateTermDays(from, so.Pos, so.TermDays, pay)

	case database.OpUpdatePrice:
		return h.State.UpdatePixelPrice(from, so.Pos, so.Price, pay)

	case database.OpBurn:
		return h.State.BurnPixel(from, so.Pos)
	}

	return nil, errs.NewTrusted(fmt.Errorf("method %q not accepted on the public host", so.Method), http.StatusBadRequest)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Config returns the current economic settings.
func (h Handlers) Config(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	settings := h.State.QuerySettings()
	return web.Respond(ctx, w, settings, http.StatusOK)
}

// Pixel returns the pixel at the specified position. Positions that were
// never minted or were burned report the available sentinel.
func (h Handlers) Pixel(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pos, err := parsePosition(r)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	pix := h.State.QueryPixel(pos)

	resp := pixel{
		Pos:         pos,
		Owner:       pix.Owner,
		Color:       pix.Color,
		TermBeginAt: pix.TermBeginAt,
		TermDays:    pix.TermDays,
		Price:       pix.Price,
		Deposit:     pix.Deposit,
	}
	if !pix.Owner.IsZero() {
		resp.OwnerName = h.NS.Lookup(pix.Owner)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pixels returns a rectangle of pixels in row-major order starting at the
// specified position.
func (h Handlers) Pixels(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pos, err := parsePosition(r)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	width, err := parseUint32(r, "width")
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	height, err := parseUint32(r, "height")
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	const maxRect = 1 << 20
	if uint64(width)*uint64(height) > maxRect {
		return errs.NewTrusted(errors.New("rectangle too large"), http.StatusBadRequest)
	}

	pixels := h.State.QueryPixels(pos, width, height)
	return web.Respond(ctx, w, pixels, http.StatusOK)
}

// Sample provides a trace probe endpoint for verifying the middleware chain.
func (h Handlers) Sample(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

func parsePosition(r *http.Request) (database.Position, error) {
	x, err := parseUint32(r, "x")
	if err != nil {
		return database.Position{}, err
	}

	y, err := parseUint32(r, "y")
	if err != nil {
		return database.Position{}, err
	}

	return database.Position{X: x, Y: y}, nil
}

func parseUint32(r *http.Request, key string) (uint32, error) {
	value, err := strconv.ParseUint(web.Param(r, key), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return uint32(value), nil
}
