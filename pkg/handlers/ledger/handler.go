package ledger

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/ingest"
	ledgersvc "github.com/de-tools/ledger-atlas/pkg/services/ledger"
)

// uploadField is the multipart form field carrying the CSV file.
const uploadField = "file"

type Handler struct {
	service ledgersvc.Service
}

func NewHandler(service ledgersvc.Service) *Handler {
	return &Handler{service: service}
}

// Upload ingests a multipart CSV upload, replacing the current
// snapshot. The previous snapshot survives any failure.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, api.Error{Error: "Missing 'file' upload"})
		return
	}
	defer file.Close()

	if err := h.service.Ingest(ctx, file); err != nil {
		logger.Error().Err(err).Msg("failed to process upload")
		status := http.StatusInternalServerError
		if errors.Is(err, ingest.ErrMalformedInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, api.Error{Error: "Failed to process transactions"})
		return
	}

	writeJSON(w, http.StatusOK, api.Message{Message: "Transactions processed successfully"})
}

// AccountReport returns account -> card -> balance totals for the
// current snapshot.
func (h *Handler) AccountReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	balances, err := h.service.AccountReport(ctx)
	if err != nil {
		h.reportFailure(w, r, err, "account report")
		return
	}

	writeJSON(w, http.StatusOK, toAPIBalances(balances))
}

// BadTransactions returns the malformed rows of the current snapshot
// verbatim, in file order.
func (h *Handler) BadTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	malformed, err := h.service.MalformedReport(ctx)
	if err != nil {
		h.reportFailure(w, r, err, "bad-transactions report")
		return
	}

	out := make([]api.RawRecord, len(malformed))
	for i, rec := range malformed {
		out[i] = api.RawRecord(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// Collections returns the distinct accounts holding any negative-amount
// transaction.
func (h *Handler) Collections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accounts, err := h.service.CollectionsReport(ctx)
	if err != nil {
		h.reportFailure(w, r, err, "collections report")
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

// Reset clears the current snapshot.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.Reset(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to reset")
		writeJSON(w, http.StatusServiceUnavailable, api.Error{Error: "Failed to reset system"})
		return
	}

	writeJSON(w, http.StatusOK, api.Message{Message: "System reset successfully"})
}

func (h *Handler) reportFailure(w http.ResponseWriter, r *http.Request, err error, report string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("report", report).Msg("failed to generate report")
	writeJSON(w, http.StatusServiceUnavailable, api.Error{Error: "Failed to generate report"})
}

func toAPIBalances(balances domain.AccountBalances) api.AccountBalances {
	out := make(api.AccountBalances, len(balances))
	for account, cards := range balances {
		out[account] = make(map[string]float64, len(cards))
		for card, total := range cards {
			out[account][card] = total.InexactFloat64()
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
