package handler

import (
	"encoding/json"
	"net/http"

	"github.com/onfly/isp-portal-bff-go/internal/document"
	"github.com/onfly/isp-portal-bff-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Validação de documento — POST /v1/documents/validate
// ============================================================

// documentValidateHandler answers the pre-login form check. It never says
// whether the document belongs to a customer, only whether it is well formed.
func documentValidateHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/documents/validate")
		defer span.End()

		var req struct {
			Document string `json:"document"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		doc := document.Digits(req.Document)
		check := domain.DocumentCheck{
			Valid: document.Validate(doc),
			Kind:  string(document.DetectKind(doc)),
		}
		if check.Valid {
			check.Formatted = document.Format(doc)
		}

		logger.Debug("document validated",
			zap.Bool("valid", check.Valid),
			zap.String("kind", check.Kind),
		)
		writeJSON(w, http.StatusOK, check)
	}
}
