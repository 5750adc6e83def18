package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finance/src/services"
	"finance/src/sessions"
	"finance/src/utils"
	"finance/src/utils/render"
)

const defaultRequestTimeout = 10 * time.Second

type Handler struct {
	AuthService      services.AuthServiceI
	TradingService   services.TradingServiceI
	PortfolioService services.PortfolioServiceI
	HistoryService   services.HistoryServiceI
	Sessions         *sessions.Manager
	Renderer         *render.Renderer
	RequestTimeout   time.Duration
}

func NewHandler(
	authService services.AuthServiceI,
	tradingService services.TradingServiceI,
	portfolioService services.PortfolioServiceI,
	historyService services.HistoryServiceI,
	sessionManager *sessions.Manager,
	renderer *render.Renderer,
	requestTimeout time.Duration,
) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &Handler{
		AuthService:      authService,
		TradingService:   tradingService,
		PortfolioService: portfolioService,
		HistoryService:   historyService,
		Sessions:         sessionManager,
		Renderer:         renderer,
		RequestTimeout:   requestTimeout,
	}
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.RequestTimeout)
}

// accountID is only called behind RequireSession, which guarantees the id.
func accountID(r *http.Request) int64 {
	id, _ := sessions.AccountIDFromContext(r.Context())
	return id
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	_, loggedIn := sessions.AccountIDFromContext(r.Context())
	err := h.Renderer.Render(w, status, page, render.View{LoggedIn: loggedIn, Data: data})
	if err != nil {
		utils.LoggerFromContext(r.Context()).WithError(err).WithField("page", page).Error("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) apology(w http.ResponseWriter, r *http.Request, code int, message string) {
	h.render(w, r, code, "apology", render.Apology{Code: code, Message: message})
}

// HandleErrors renders err as an apology page. User errors are 400s with
// their own message; anything unexpected is logged and hidden behind a 500.
func (h *Handler) HandleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var userErr *services.Error
	var httpErr *utils.HTTPError
	if errors.Is(err, context.DeadlineExceeded) {
		h.apology(w, r, http.StatusGatewayTimeout, "request timed out")
	} else if errors.As(err, &userErr) {
		h.apology(w, r, http.StatusBadRequest, userErr.Message)
	} else if errors.As(err, &httpErr) {
		h.apology(w, r, httpErr.Code, httpErr.Message)
	} else if err != nil {
		utils.LoggerFromContext(r.Context()).WithError(err).Error("request failed")
		h.apology(w, r, http.StatusInternalServerError, "internal server error")
	} else {
		h.apology(w, r, http.StatusInternalServerError, "unhandled error")
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}
