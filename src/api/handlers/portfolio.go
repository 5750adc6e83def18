package handlers

import (
	"net/http"
)

func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	portfolio, err := h.PortfolioService.Valuation(ctx, accountID(r))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index", portfolio)
}

func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "quote", nil)
}

func (h *Handler) PostQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	quote, err := h.PortfolioService.Quote(ctx, r.PostFormValue("symbol"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "quoted", quote)
}
