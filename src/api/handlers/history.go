package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"finance/src/utils"
)

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	entries, err := h.HistoryService.List(ctx, accountID(r))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "history", entries)
}

// ExportHistory downloads the history as XLSX (default) or CSV.
func (h *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	format := strings.ToUpper(r.URL.Query().Get("format"))
	if format == "" {
		format = "XLSX"
	}

	var buf bytes.Buffer
	switch format {
	case "XLSX":
		f, err := h.HistoryService.ExportXLSX(ctx, accountID(r))
		if err != nil {
			h.HandleErrors(w, r, err)
			return
		}
		defer f.Close()
		if err := f.Write(&buf); err != nil {
			h.HandleErrors(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=history.xlsx")
	case "CSV":
		if err := h.HistoryService.ExportCSV(ctx, accountID(r), &buf); err != nil {
			h.HandleErrors(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=history.csv")
	default:
		h.HandleErrors(w, r, utils.BadRequest("unsupported export format"))
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("failed to write export")
	}
}
