package handlers

import (
	"net/http"

	"finance/src/services"
)

func (h *Handler) GetBuy(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "buy", nil)
}

func (h *Handler) PostBuy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	shares, err := services.ParseShares(r.PostFormValue("shares"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	if _, err := h.TradingService.Buy(ctx, accountID(r), r.PostFormValue("symbol"), shares); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	redirectHome(w, r)
}

// GetSell renders the sell form with the symbols currently held.
func (h *Handler) GetSell(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	symbols, err := h.PortfolioService.Holdings(ctx, accountID(r))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "sell", symbols)
}

func (h *Handler) PostSell(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	shares, err := services.ParseShares(r.PostFormValue("shares"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	if _, err := h.TradingService.Sell(ctx, accountID(r), r.PostFormValue("symbol"), shares); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	redirectHome(w, r)
}
