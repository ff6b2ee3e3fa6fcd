// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
)

// ProvisioningStore defines all operations against the provisioning/billing
// upstream. Implemented by the SGP adapter.
type ProvisioningStore interface {
	// Customers and titles
	GetCustomer(ctx context.Context, documentID string) (*domain.User, error)
	GetInvoices(ctx context.Context, documentID string) ([]domain.Invoice, error)

	// Service access
	CheckAccess(ctx context.Context, contractID string) (*domain.ServiceAccess, error)
	RequestTrustUnlock(ctx context.Context, contractID string) (*domain.TrustUnlockResult, error)

	// CPE management
	UpdateWifi(ctx context.Context, contractID string, serviceID int, cfg domain.WifiConfig) error

	// Support tickets
	ListTickets(ctx context.Context, documentID, contractID string) ([]domain.Ticket, error)
	OpenTicket(ctx context.Context, contractID string, req domain.OpenTicketRequest) (*domain.OpenTicketResult, error)
	ListTicketTypes(ctx context.Context, documentID string) ([]domain.TicketType, error)

	// Traffic statement
	GetUsage(ctx context.Context, documentID, servicePassword, contractID string, year, month int) ([]domain.UsageRecord, error)
}

// QualityProber runs one active probe round against the reachability target.
type QualityProber interface {
	Run(ctx context.Context) (domain.Telemetry, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
