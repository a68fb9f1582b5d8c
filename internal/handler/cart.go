package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/ojo-prints/internal/domain/cart"
)

// ApplyCart applies one operation to a client cart snapshot and returns the
// resulting snapshot with its totals.
func (h *Handler) ApplyCart(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	req, err := decodeCartRequest(data)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !req.HasOp {
		fail(w, r, malformed(errors.New("missing op")))
		return
	}

	ledger, err := h.carts.Apply(r.Context(), req.Lines, req.Op)
	if err != nil {
		fail(w, r, err)
		return
	}
	zctx.From(r.Context()).Debug("Cart updated",
		zap.String("op", string(req.Op.Type)),
		zap.Int("lines", ledger.Len()),
		zap.Int("count", ledger.Count()),
	)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCart(e, ledger)
	})
}

// CheckoutCart resolves payment links for every line of a cart snapshot.
// Lines without a link are listed under "missing".
func (h *Handler) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	req, err := decodeCartRequest(data)
	if err != nil {
		fail(w, r, err)
		return
	}

	ledger := cart.Restore(h.prices, req.Lines)
	res := h.checkout.ResolveCart(h.catalog, ledger.Lines())
	for _, ll := range res.Lines {
		h.recordResolution(r, ll.Link, ll.Found)
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCartLinks(e, res, ledger.Subtotal())
	})
}
