package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/document"
	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Autenticação — POST /v1/auth/login
// ============================================================

func loginHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := svc.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// Cliente — GET /v1/customers/{document}
// ============================================================

func getCustomerHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{document}")
		defer span.End()

		doc, ok := authorizedDocument(w, r)
		if !ok {
			return
		}
		span.SetAttributes(attribute.String("customer.document", document.Mask(doc)))

		user, err := svc.GetUser(ctx, doc)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// ============================================================
// Faturas — GET /v1/customers/{document}/invoices
// ============================================================

func listInvoicesHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{document}/invoices")
		defer span.End()

		doc, ok := authorizedDocument(w, r)
		if !ok {
			return
		}

		invoices, err := svc.ListInvoices(ctx, doc)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, invoices)
	}
}

// ============================================================
// Acesso — GET /v1/contracts/{contractId}/access
// ============================================================

func checkAccessHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/contracts/{contractId}/access")
		defer span.End()

		contractID := chi.URLParam(r, "contractId")
		access, err := svc.CheckAccess(ctx, contractID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, access)
	}
}

// ============================================================
// Liberação por confiança — POST /v1/contracts/{contractId}/trust-unlock
// ============================================================

func trustUnlockHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/contracts/{contractId}/trust-unlock")
		defer span.End()

		contractID := chi.URLParam(r, "contractId")
		result, err := svc.RequestTrustUnlock(ctx, contractID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// ============================================================
// Wi-Fi — PUT /v1/contracts/{contractId}/wifi
// ============================================================

func updateWifiHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/contracts/{contractId}/wifi")
		defer span.End()

		contractID := chi.URLParam(r, "contractId")

		var cfg domain.WifiConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		doc := DocumentFromContext(ctx)
		if err := svc.UpdateWifi(ctx, doc, contractID, cfg); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// ============================================================
// Chamados — /v1/contracts/{contractId}/tickets
// ============================================================

func listTicketsHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/contracts/{contractId}/tickets")
		defer span.End()

		contractID := chi.URLParam(r, "contractId")
		tickets, err := svc.ListTickets(ctx, DocumentFromContext(ctx), contractID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, tickets)
	}
}

func openTicketHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/contracts/{contractId}/tickets")
		defer span.End()

		contractID := chi.URLParam(r, "contractId")

		var req domain.OpenTicketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := svc.OpenTicket(ctx, contractID, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

func listTicketTypesHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/tickets/types")
		defer span.End()

		types, err := svc.ListTicketTypes(ctx, DocumentFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, types)
	}
}

// ============================================================
// Extrato de uso — GET /v1/contracts/{contractId}/usage
// ============================================================

func getUsageHandler(svc *service.Portal, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/contracts/{contractId}/usage")
		defer span.End()

		contractID := chi.URLParam(r, "contractId")

		now := time.Now()
		year, month := now.Year(), int(now.Month())
		if v := r.URL.Query().Get("year"); v != "" {
			if y, err := strconv.Atoi(v); err == nil {
				year = y
			}
		}
		if v := r.URL.Query().Get("month"); v != "" {
			if m, err := strconv.Atoi(v); err == nil {
				month = m
			}
		}

		records, err := svc.GetUsage(ctx, DocumentFromContext(ctx), contractID, year, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, records)
	}
}

// authorizedDocument resolves the {document} URL parameter and checks it
// against the session. A customer can only read their own records.
func authorizedDocument(w http.ResponseWriter, r *http.Request) (string, bool) {
	doc := document.Digits(chi.URLParam(r, "document"))
	if doc == "" {
		writeError(w, http.StatusBadRequest, "document is required")
		return "", false
	}
	if doc != DocumentFromContext(r.Context()) {
		writeError(w, http.StatusForbidden, "documento não corresponde à sessão")
		return "", false
	}
	return doc, true
}
