package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// networkQualityResponse wraps the snapshot with an id and timestamp so the
// app can correlate successive readings in its diagnostics timeline.
type networkQualityResponse struct {
	ID         string `json:"id"`
	MeasuredAt string `json:"measured_at"`
	domain.NetworkQualitySnapshot
}

// ============================================================
// Qualidade de rede — POST /v1/network/quality
// ============================================================

func networkQualityHandler(svc *service.Network, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/network/quality")
		defer span.End()

		var cs domain.ConnectivitySnapshot
		if err := json.NewDecoder(r.Body).Decode(&cs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		snap, err := svc.Snapshot(ctx, cs)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, networkQualityResponse{
			ID:                     uuid.New().String(),
			MeasuredAt:             time.Now().Format(time.RFC3339),
			NetworkQualitySnapshot: *snap,
		})
	}
}
