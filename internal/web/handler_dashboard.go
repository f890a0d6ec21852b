package web

import (
	"net/http"

	"github.com/rescueops/foodledger/internal/domain"
	"github.com/rescueops/foodledger/internal/stats"
)

// dashboardResponse extends the computed rollups with the fixed operational
// figures the dashboard displays. Those are not tracked by the ledger yet.
type dashboardResponse struct {
	stats.Dashboard
	SpoilagePercent             float64 `json:"spoilagePercent"`
	AvgPickupToStorageMinutes   int     `json:"avgPickupToStorageMinutes"`
	ColdTurnaroundMinutes       int     `json:"coldTurnaroundMinutes"`
	VolunteerUtilizationPercent int     `json:"volunteerUtilizationPercent"`
	VolunteerScheduled          int     `json:"volunteerScheduled"`
	VolunteerActive             int     `json:"volunteerActive"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	entries := s.service.Entries(r.Context())

	s.writeJSON(w, http.StatusOK, dashboardResponse{
		Dashboard:                   stats.Compute(entries, s.now().UTC()),
		SpoilagePercent:             2.4,
		AvgPickupToStorageMinutes:   38,
		ColdTurnaroundMinutes:       52,
		VolunteerUtilizationPercent: 73,
		VolunteerScheduled:          24,
		VolunteerActive:             18,
	})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 200)

	alerts := s.service.Alerts(r.Context())
	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	if alerts == nil {
		alerts = []*domain.Alert{}
	}
	s.writeJSON(w, http.StatusOK, alerts)
}
