package http

import (
	"net/http"

	"patrimonio/internal/report"
)

type overviewResponse struct {
	report.Overview
	Assets      report.AssetSummary     `json:"assets"`
	Liabilities report.LiabilitySummary `json:"liabilities"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	writeJSON(w, http.StatusOK, overviewResponse{
		Overview:    s.reports.Dashboard(year, month),
		Assets:      s.reports.Assets(),
		Liabilities: s.reports.Liabilities(),
	})
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	writeJSON(w, http.StatusOK, s.reports.Tiers(year, month))
}
