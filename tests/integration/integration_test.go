package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/handler"
	"github.com/onfly/isp-portal-bff-go/internal/infra/cache"
	"github.com/onfly/isp-portal-bff-go/internal/infra/observability"
	"github.com/onfly/isp-portal-bff-go/internal/infra/resilience"
	"github.com/onfly/isp-portal-bff-go/internal/infra/sgp"
	"github.com/onfly/isp-portal-bff-go/internal/netquality"
	"github.com/onfly/isp-portal-bff-go/internal/service"

	"go.uber.org/zap"
)

const testCPF = "12345678909"

// newSGPMock serves the two endpoints the login flow hits, with payloads
// shaped like the real provisioning system's responses.
func newSGPMock(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ura/consultacliente/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"contratos": []map[string]any{
				{
					"contratoId":            1001,
					"razaoSocial":           "Maria Souza",
					"servico_plano":         "FIBRA 300 MEGA",
					"contratoStatusDisplay": "Ativo",
					"endereco_logradouro":   "Rua das Flores",
					"endereco_numero":       "120",
					"endereco_bairro":       "Centro",
					"servico_wifi_ssid":     "CasaFibra",
				},
			},
		})
	})

	mux.HandleFunc("/api/ura/titulos/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostFormValue("cpfcnpj") != testCPF {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"titulos": []map[string]any{
				{
					"id":              "t-1",
					"clienteContrato": 1001,
					"valor":           99.90,
					"dataVencimento":  "2026-09-10",
					"status":          "Em aberto",
					"linhaDigitavel":  "34191.79001 01043.510047 91020.150008 1 99999999999999",
				},
			},
		})
	})

	return httptest.NewServer(mux)
}

func newTestRouter(t *testing.T, upstream string) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test")
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	store := sgp.NewClient(httpClient, upstream, "test-token", cb, cfg, logger)

	// Probe target that always answers: telemetry should report zero loss.
	probeTarget := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(probeTarget.Close)
	prober := netquality.NewProber(httpClient, probeTarget.URL, 3, time.Second, logger)

	portalSvc := service.NewPortal(
		store,
		cache.New[*domain.User](5*time.Minute),
		cache.New[[]domain.TicketType](time.Hour),
		resilience.NewBulkhead(10),
		metrics,
		logger,
		[]byte("integration-secret"),
		15*time.Minute,
	)
	networkSvc := service.NewNetwork(prober, metrics, logger)

	return handler.NewRouter(portalSvc, networkSvc, metrics, logger)
}

// TestIntegration_LoginFlow runs the full login path: document validation,
// concurrent upstream fetches, normalization and token issuance.
func TestIntegration_LoginFlow(t *testing.T) {
	upstream := newSGPMock(t)
	defer upstream.Close()

	router := newTestRouter(t, upstream.URL)

	body, _ := json.Marshal(domain.LoginRequest{Document: "123.456.789-09"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var resp domain.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if resp.User == nil || len(resp.User.Contracts) != 1 {
		t.Fatalf("expected 1 contract, got %+v", resp.User)
	}

	contract := resp.User.Contracts[0]
	if contract.ID != "1001" {
		t.Errorf("expected contract id '1001', got %q", contract.ID)
	}
	if contract.Plan.DownloadSpeed != 300 || contract.Plan.UploadSpeed != 150 {
		t.Errorf("expected 300/150 Mbps plan, got %d/%d", contract.Plan.DownloadSpeed, contract.Plan.UploadSpeed)
	}
	if contract.Status != domain.ContractActive {
		t.Errorf("expected active contract, got %s", contract.Status)
	}
	if len(contract.Invoices) != 1 {
		t.Fatalf("expected the title linked to the contract, got %d", len(contract.Invoices))
	}
	if contract.Invoices[0].BarcodeLine == nil {
		t.Error("expected barcode line on the linked title")
	}

	// The issued token must open protected routes for the same document.
	req = httptest.NewRequest(http.MethodGet, "/v1/customers/"+testCPF, nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec = httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on protected route, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}

// TestIntegration_LoginRejectsBadDocument exercises the validator in front
// of the upstream: no SGP call may happen for a malformed document.
func TestIntegration_LoginRejectsBadDocument(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an invalid document")
	}))
	defer upstream.Close()

	router := newTestRouter(t, upstream.URL)

	body, _ := json.Marshal(domain.LoginRequest{Document: "111.111.111-11"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestIntegration_NetworkQuality runs the probe against a live test server.
func TestIntegration_NetworkQuality(t *testing.T) {
	upstream := newSGPMock(t)
	defer upstream.Close()

	router := newTestRouter(t, upstream.URL)

	rssi := -58
	freq := 5180
	body, _ := json.Marshal(domain.ConnectivitySnapshot{RSSI: &rssi, FrequencyMHz: &freq})
	req := httptest.NewRequest(http.MethodPost, "/v1/network/quality", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var snap struct {
		domain.NetworkQualitySnapshot
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if snap.ID == "" {
		t.Error("expected a snapshot id")
	}
	if snap.QualityTier != domain.TierExcellent {
		t.Errorf("expected excellent tier for -58 dBm, got %s", snap.QualityTier)
	}
	if snap.Band != "5 GHz" {
		t.Errorf("expected 5 GHz band, got %q", snap.Band)
	}
	if snap.Telemetry.PacketLossPercent != 0 {
		t.Errorf("expected zero loss against live target, got %f", snap.Telemetry.PacketLossPercent)
	}
	if snap.Telemetry.LatencyMs == nil {
		t.Error("expected latency from successful probes")
	}
}
