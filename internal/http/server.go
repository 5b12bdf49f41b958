// Package http is the external collaborator surface: a local JSON API over
// the ledgers, journals, and aggregator.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"patrimonio/internal/events"
	"patrimonio/internal/journal"
	"patrimonio/internal/ledger"
	"patrimonio/internal/report"
)

type Server struct {
	http.Server

	assets       *ledger.AssetLedger
	liabilities  *ledger.LiabilityLedger
	incomes      *journal.IncomeJournal
	expenditures *journal.ExpenditureJournal
	reports      *report.Aggregator
	events       *events.Client // nil when AMQP is not configured
}

func NewServer(addr string, assets *ledger.AssetLedger, liabilities *ledger.LiabilityLedger, incomes *journal.IncomeJournal, expenditures *journal.ExpenditureJournal, reports *report.Aggregator, ev *events.Client) *Server {
	s := &Server{
		assets:       assets,
		liabilities:  liabilities,
		incomes:      incomes,
		expenditures: expenditures,
		reports:      reports,
		events:       ev,
	}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/assets", s.handleListAssets).Methods(http.MethodGet)
	api.HandleFunc("/assets", s.handleAddAsset).Methods(http.MethodPost)
	api.HandleFunc("/assets/{id:[0-9]+}", s.handleRemoveAsset).Methods(http.MethodDelete)

	api.HandleFunc("/liabilities", s.handleListLiabilities).Methods(http.MethodGet)
	api.HandleFunc("/liabilities", s.handleAddLiability).Methods(http.MethodPost)
	api.HandleFunc("/liabilities/{id:[0-9]+}", s.handleRemoveLiability).Methods(http.MethodDelete)

	api.HandleFunc("/incomes", s.handleListIncomes).Methods(http.MethodGet)
	api.HandleFunc("/incomes", s.handleRecordIncome).Methods(http.MethodPost)
	api.HandleFunc("/incomes/asset-types", s.handleAssetTypeOptions).Methods(http.MethodGet)
	api.HandleFunc("/incomes/{id:[0-9]+}", s.handleDeleteIncome).Methods(http.MethodDelete)

	api.HandleFunc("/expenditures", s.handleListExpenditures).Methods(http.MethodGet)
	api.HandleFunc("/expenditures", s.handleRecordExpenditure).Methods(http.MethodPost)
	api.HandleFunc("/expenditures/liability-types", s.handleLiabilityOptions).Methods(http.MethodGet)
	api.HandleFunc("/expenditures/{id:[0-9]+}", s.handleDeleteExpenditure).Methods(http.MethodDelete)

	api.HandleFunc("/report/overview", s.handleOverview).Methods(http.MethodGet)
	api.HandleFunc("/report/tiers", s.handleTiers).Methods(http.MethodGet)

	s.Handler = r
	s.Addr = addr
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// publishChange notifies the optional event stream of a mutation. Delivery
// failures never fail the request; the store is already updated.
func (s *Server) publishChange(ctx context.Context, collection, action string, recordID int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, collection, action, recordID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change event",
			"collection", collection, "action", action, "record_id", recordID, "error", err)
	}
}
