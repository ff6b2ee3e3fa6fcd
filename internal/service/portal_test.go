package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/infra/cache"
	"github.com/onfly/isp-portal-bff-go/internal/infra/observability"
	"github.com/onfly/isp-portal-bff-go/internal/infra/resilience"
	"github.com/onfly/isp-portal-bff-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockStore struct {
	user     *domain.User
	invoices []domain.Invoice
	access   *domain.ServiceAccess
	unlock   *domain.TrustUnlockResult
	tickets  []domain.Ticket
	types    []domain.TicketType
	usage    []domain.UsageRecord
	opened   *domain.OpenTicketResult
	err      error

	customerCalls int
	invoiceCalls  int
	wifiCalls     int
}

func (m *mockStore) GetCustomer(_ context.Context, _ string) (*domain.User, error) {
	m.customerCalls++
	return m.user, m.err
}

func (m *mockStore) GetInvoices(_ context.Context, _ string) ([]domain.Invoice, error) {
	m.invoiceCalls++
	return m.invoices, m.err
}

func (m *mockStore) CheckAccess(_ context.Context, _ string) (*domain.ServiceAccess, error) {
	return m.access, m.err
}

func (m *mockStore) RequestTrustUnlock(_ context.Context, _ string) (*domain.TrustUnlockResult, error) {
	return m.unlock, m.err
}

func (m *mockStore) UpdateWifi(_ context.Context, _ string, _ int, _ domain.WifiConfig) error {
	m.wifiCalls++
	return m.err
}

func (m *mockStore) ListTickets(_ context.Context, _, _ string) ([]domain.Ticket, error) {
	return m.tickets, m.err
}

func (m *mockStore) OpenTicket(_ context.Context, _ string, _ domain.OpenTicketRequest) (*domain.OpenTicketResult, error) {
	return m.opened, m.err
}

func (m *mockStore) ListTicketTypes(_ context.Context, _ string) ([]domain.TicketType, error) {
	return m.types, m.err
}

func (m *mockStore) GetUsage(_ context.Context, _, _, _ string, _, _ int) ([]domain.UsageRecord, error) {
	return m.usage, m.err
}

const (
	validCPF  = "123.456.789-09"
	cpfDigits = "12345678909"
)

func strPtr(s string) *string { return &s }

func newPortal(store *mockStore) *service.Portal {
	return service.NewPortal(
		store,
		cache.New[*domain.User](5*time.Minute),
		cache.New[[]domain.TicketType](time.Hour),
		resilience.NewBulkhead(4),
		observability.NewMetrics(),
		zap.NewNop(),
		[]byte("test-secret"),
		15*time.Minute,
	)
}

func testUser() *domain.User {
	return &domain.User{
		DocumentID: cpfDigits,
		Name:       "Maria Souza",
		Contracts: []domain.Contract{
			{
				ID:         "1001",
				ClientName: "Maria Souza",
				Status:     domain.ContractActive,
				Plan:       domain.Plan{Name: "Fibra 300MB", DownloadSpeed: 300, UploadSpeed: 150},
			},
		},
	}
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	store := &mockStore{
		user: testUser(),
		invoices: []domain.Invoice{
			{ID: "inv-1", ContractID: "1001", Amount: 99.90, Status: domain.InvoicePending},
		},
	}
	svc := newPortal(store)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Document: validCPF})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.AccessToken == "" {
		t.Error("expected a signed access token")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expected expires_in 900, got %d", resp.ExpiresIn)
	}
	if resp.User.DocumentID != cpfDigits {
		t.Errorf("expected document %q, got %q", cpfDigits, resp.User.DocumentID)
	}
	if got := len(resp.User.Contracts[0].Invoices); got != 1 {
		t.Errorf("expected 1 invoice attached to contract, got %d", got)
	}
}

func TestLogin_InvalidDocument(t *testing.T) {
	svc := newPortal(&mockStore{})

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Document: "111.111.111-11"})

	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLogin_CustomerNotFound(t *testing.T) {
	store := &mockStore{err: &domain.ErrNotFound{Resource: "customer", ID: cpfDigits}}
	svc := newPortal(store)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Document: validCPF})

	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	store := &mockStore{user: testUser()}
	svc := newPortal(store)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Document: validCPF})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("expected token to validate, got %v", err)
	}
	if claims.Sub != cpfDigits {
		t.Errorf("expected sub %q, got %q", cpfDigits, claims.Sub)
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newPortal(&mockStore{})

	_, err := svc.ValidateAccessToken("not-a-token")

	var ua *domain.ErrUnauthorized
	if !errors.As(err, &ua) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// --- GetUser ---

func TestGetUser_CacheHit(t *testing.T) {
	store := &mockStore{user: testUser()}
	svc := newPortal(store)

	if _, err := svc.GetUser(context.Background(), cpfDigits); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.GetUser(context.Background(), cpfDigits); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if store.customerCalls != 1 {
		t.Errorf("expected 1 upstream customer call, got %d", store.customerCalls)
	}
}

// --- Wi-Fi ---

func TestUpdateWifi_ResolvesServiceID(t *testing.T) {
	store := &mockStore{
		access: &domain.ServiceAccess{Status: 1, ContractID: "1001", ServiceID: 42},
	}
	svc := newPortal(store)

	err := svc.UpdateWifi(context.Background(), cpfDigits, "1001", domain.WifiConfig{
		SSID:     "MinhaRede",
		Password: "supersegura",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.wifiCalls != 1 {
		t.Errorf("expected 1 wifi update, got %d", store.wifiCalls)
	}
}

func TestUpdateWifi_ShortPassword(t *testing.T) {
	svc := newPortal(&mockStore{})

	err := svc.UpdateWifi(context.Background(), cpfDigits, "1001", domain.WifiConfig{
		SSID:     "MinhaRede",
		Password: "curta",
	})

	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// --- Tickets ---

func TestOpenTicket_EmptyContent(t *testing.T) {
	svc := newPortal(&mockStore{})

	_, err := svc.OpenTicket(context.Background(), "1001", domain.OpenTicketRequest{
		TypeID:  3,
		Content: "   ",
	})

	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListTicketTypes_Cached(t *testing.T) {
	store := &mockStore{types: []domain.TicketType{{ID: 1, Name: "Sem conexão"}}}
	svc := newPortal(store)

	first, err := svc.ListTicketTypes(context.Background(), cpfDigits)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}

	store.types = nil // cache must answer the second call
	second, err := svc.ListTicketTypes(context.Background(), cpfDigits)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("expected cached types, got %d entries", len(second))
	}
}

// --- Usage ---

func TestGetUsage_UsesServicePassword(t *testing.T) {
	user := testUser()
	user.Contracts[0].ServicePassword = strPtr("s3nh4")
	store := &mockStore{
		user:  user,
		usage: []domain.UsageRecord{{Date: "2026-08-01", DownloadGB: 1.5, UploadGB: 0.2}},
	}
	svc := newPortal(store)

	records, err := svc.GetUsage(context.Background(), cpfDigits, "1001", 2026, 8)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestGetUsage_NoServicePassword(t *testing.T) {
	store := &mockStore{user: testUser()}
	svc := newPortal(store)

	_, err := svc.GetUsage(context.Background(), cpfDigits, "1001", 2026, 8)

	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUsage_BadMonth(t *testing.T) {
	svc := newPortal(&mockStore{})

	_, err := svc.GetUsage(context.Background(), cpfDigits, "1001", 2026, 13)

	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
