package api

import (
	"net/http"

	"github.com/drawdownlabs/engine/internal/config"
)

// ConfigResponse is the JSON body returned by GET /api/config.
type ConfigResponse struct {
	Settings []config.SettingStatus `json:"settings"`
}

// handleGetConfig returns the running configuration and where each value
// came from. The configuration holds no secrets.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, ConfigResponse{Settings: config.Settings(s.cfg)})
}
