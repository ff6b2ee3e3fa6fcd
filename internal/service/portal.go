package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/document"
	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/infra/observability"
	"github.com/onfly/isp-portal-bff-go/internal/infra/resilience"
	"github.com/onfly/isp-portal-bff-go/internal/normalize"
	"github.com/onfly/isp-portal-bff-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/portal")

// Portal orchestrates the customer-facing operations: login, contracts,
// invoices, service access, Wi-Fi, tickets and usage. All upstream data
// flows through the SGP adapter and arrives here already normalized.
type Portal struct {
	store      port.ProvisioningStore
	userCache  port.Cache[*domain.User]
	typesCache port.Cache[[]domain.TicketType]
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
	logger     *zap.Logger

	jwtSecret []byte
	accessTTL time.Duration
}

// NewPortal creates the portal service with all dependencies injected.
func NewPortal(
	store port.ProvisioningStore,
	userCache port.Cache[*domain.User],
	typesCache port.Cache[[]domain.TicketType],
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
	jwtSecret []byte,
	accessTTL time.Duration,
) *Portal {
	return &Portal{
		store:      store,
		userCache:  userCache,
		typesCache: typesCache,
		bulkhead:   bulkhead,
		metrics:    metrics,
		logger:     logger,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
	}
}

// ============================================================
// Login — POST /v1/auth/login
// ============================================================

// Login validates the document, fetches contracts and titles concurrently,
// links titles to their contracts and issues a session token. The portal has
// no password of its own; possession of a valid registered document is the
// credential, as on the IVR.
func (p *Portal) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "Portal.Login")
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("login", time.Since(start))
	}()

	doc := document.Digits(req.Document)
	if !document.Validate(doc) {
		p.metrics.IncrLogin("invalid_document")
		return nil, &domain.ErrValidation{Field: "document", Message: "CPF ou CNPJ inválido"}
	}
	span.SetAttributes(attribute.String("customer.document", document.Mask(doc)))

	user, invoices, err := p.fetchCustomerBundle(ctx, doc)
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			p.metrics.IncrLogin("not_found")
		} else {
			p.metrics.IncrLogin("error")
		}
		return nil, err
	}

	orphans := normalize.AttachInvoices(user.Contracts, invoices)
	if len(orphans) > 0 {
		p.logger.Warn("login: titles without a matching contract",
			zap.String("document", document.Mask(doc)),
			zap.Int("count", len(orphans)),
		)
	}

	token, err := p.signAccessToken(doc)
	if err != nil {
		p.metrics.IncrLogin("error")
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	p.userCache.Set(userCacheKey(doc), user)
	p.metrics.IncrLogin("success")
	p.logger.Info("customer logged in",
		zap.String("document", document.Mask(doc)),
		zap.Int("contracts", len(user.Contracts)),
	)

	return &domain.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(p.accessTTL.Seconds()),
		User:        user,
	}, nil
}

// fetchCustomerBundle fetches contracts and titles concurrently. The
// bulkhead bounds the upstream fan-out across all in-flight logins.
func (p *Portal) fetchCustomerBundle(ctx context.Context, doc string) (*domain.User, []domain.Invoice, error) {
	if err := p.bulkhead.Acquire(ctx); err != nil {
		return nil, nil, &domain.ErrTimeout{Operation: "login"}
	}
	defer p.bulkhead.Release()

	var (
		user     *domain.User
		invoices []domain.Invoice
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := p.store.GetCustomer(gCtx, doc)
		if err != nil {
			p.metrics.IncrUpstreamError("consultacliente")
			return err
		}
		user = u
		return nil
	})

	g.Go(func() error {
		inv, err := p.store.GetInvoices(gCtx, doc)
		if err != nil {
			p.metrics.IncrUpstreamError("titulos")
			return err
		}
		invoices = inv
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return user, invoices, nil
}

// ============================================================
// Customer reads
// ============================================================

// GetUser returns the customer with fresh titles attached. Cache-aside:
// a hit skips both upstream calls.
func (p *Portal) GetUser(ctx context.Context, doc string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Portal.GetUser")
	defer span.End()

	if cached, ok := p.userCache.Get(userCacheKey(doc)); ok {
		p.metrics.IncrCacheHit("user")
		return cached, nil
	}
	p.metrics.IncrCacheMiss("user")

	user, invoices, err := p.fetchCustomerBundle(ctx, doc)
	if err != nil {
		return nil, err
	}
	normalize.AttachInvoices(user.Contracts, invoices)

	p.userCache.Set(userCacheKey(doc), user)
	return user, nil
}

// ListInvoices returns the flat title list for a document, newest shape
// the upstream offers. Bypasses the user cache so billing state is live.
func (p *Portal) ListInvoices(ctx context.Context, doc string) ([]domain.Invoice, error) {
	ctx, span := tracer.Start(ctx, "Portal.ListInvoices")
	defer span.End()

	invoices, err := p.store.GetInvoices(ctx, doc)
	if err != nil {
		p.metrics.IncrUpstreamError("titulos")
		return nil, err
	}
	return invoices, nil
}

func userCacheKey(doc string) string {
	return fmt.Sprintf("user:%s", doc)
}
