package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"patrimonio/internal/core"
	"patrimonio/internal/events"
	"patrimonio/internal/store"
)

type recordIncomeRequest struct {
	Type        core.IncomeType  `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	AssetType   string           `json:"assetType"`
	Description string           `json:"description"`
	Year        int              `json:"year"`
	Month       int              `json:"month"`
}

type recordExpenditureRequest struct {
	Kind          core.ExpenditureKind  `json:"expenditureType"`
	Name          string                `json:"name"`
	LiabilityType string                `json:"liabilityType"`
	Amount        *decimal.Decimal      `json:"amount"`
	Class         core.ExpenditureClass `json:"type"`
	State         core.SpendState       `json:"state"`
	Year          int                   `json:"year"`
	Month         int                   `json:"month"`
}

type periodListResponse[T any] struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Items []T             `json:"items"`
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	writeJSON(w, http.StatusOK, periodListResponse[core.Income]{
		Year:  year,
		Month: month,
		Total: s.incomes.TotalForPeriod(year, month),
		Items: s.incomes.ListForPeriod(year, month),
	})
}

func (s *Server) handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	var req recordIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Amount == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount is required"})
		return
	}

	income, err := s.incomes.Record(r.Context(), core.Income{
		Type:        req.Type,
		Amount:      *req.Amount,
		AssetType:   req.AssetType,
		Description: req.Description,
		Year:        req.Year,
		Month:       req.Month,
	})
	if err != nil {
		writeOperationError(w, err)
		return
	}

	s.publishChange(r.Context(), store.KeyIncomes, events.ActionCreate, income.ID)
	writeJSON(w, http.StatusCreated, income)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	if err := s.incomes.Delete(r.Context(), id); err != nil {
		writeOperationError(w, err)
		return
	}
	s.publishChange(r.Context(), store.KeyIncomes, events.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssetTypeOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.incomes.AssetTypeOptions())
}

func (s *Server) handleListExpenditures(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	writeJSON(w, http.StatusOK, periodListResponse[core.Expenditure]{
		Year:  year,
		Month: month,
		Total: s.expenditures.TotalForPeriod(year, month),
		Items: s.expenditures.ListForPeriod(year, month),
	})
}

func (s *Server) handleRecordExpenditure(w http.ResponseWriter, r *http.Request) {
	var req recordExpenditureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Amount == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount is required"})
		return
	}

	expenditure, err := s.expenditures.Record(r.Context(), core.Expenditure{
		Kind:          req.Kind,
		Name:          req.Name,
		LiabilityType: req.LiabilityType,
		Amount:        *req.Amount,
		Class:         req.Class,
		State:         req.State,
		Year:          req.Year,
		Month:         req.Month,
	})
	if err != nil {
		writeOperationError(w, err)
		return
	}

	s.publishChange(r.Context(), store.KeyExpenditures, events.ActionCreate, expenditure.ID)
	writeJSON(w, http.StatusCreated, expenditure)
}

func (s *Server) handleDeleteExpenditure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	if err := s.expenditures.Delete(r.Context(), id); err != nil {
		writeOperationError(w, err)
		return
	}
	s.publishChange(r.Context(), store.KeyExpenditures, events.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLiabilityOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.expenditures.LiabilityOptions())
}
