package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"patrimonio/internal/core"
	"patrimonio/internal/events"
	"patrimonio/internal/store"
)

type addAssetRequest struct {
	Type            string           `json:"type"`
	Value           *decimal.Decimal `json:"value"`
	IsMonthlyIncome bool             `json:"isMonthlyIncome"`
	InterestRate    *decimal.Decimal `json:"interestRate"`
	Description     string           `json:"description"`
}

type addLiabilityRequest struct {
	Type              string           `json:"type"`
	Amount            *decimal.Decimal `json:"amount"`
	InterestRate      *decimal.Decimal `json:"interestRate"`
	HasMonthlyPayment bool             `json:"hasMonthlyPayment"`
	Description       string           `json:"description"`
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.assets.List())
}

func (s *Server) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var req addAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Value == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "value is required"})
		return
	}

	asset, err := s.assets.Add(r.Context(), core.Asset{
		Type:            req.Type,
		Value:           *req.Value,
		IsMonthlyIncome: req.IsMonthlyIncome,
		InterestRate:    req.InterestRate,
		Description:     req.Description,
	})
	if err != nil {
		writeOperationError(w, err)
		return
	}

	s.publishChange(r.Context(), store.KeyAssets, events.ActionCreate, asset.ID)
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) handleRemoveAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	if err := s.assets.Remove(r.Context(), id); err != nil {
		writeOperationError(w, err)
		return
	}
	s.publishChange(r.Context(), store.KeyAssets, events.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLiabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.liabilities.List())
}

func (s *Server) handleAddLiability(w http.ResponseWriter, r *http.Request) {
	var req addLiabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Amount == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount is required"})
		return
	}
	if req.InterestRate == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "interestRate is required"})
		return
	}

	liability, err := s.liabilities.Add(r.Context(), core.Liability{
		Type:              req.Type,
		Amount:            *req.Amount,
		InterestRate:      *req.InterestRate,
		HasMonthlyPayment: req.HasMonthlyPayment,
		Description:       req.Description,
	})
	if err != nil {
		writeOperationError(w, err)
		return
	}

	s.publishChange(r.Context(), store.KeyLiabilities, events.ActionCreate, liability.ID)
	writeJSON(w, http.StatusCreated, liability)
}

func (s *Server) handleRemoveLiability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	if err := s.liabilities.Remove(r.Context(), id); err != nil {
		writeOperationError(w, err)
		return
	}
	s.publishChange(r.Context(), store.KeyLiabilities, events.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}
