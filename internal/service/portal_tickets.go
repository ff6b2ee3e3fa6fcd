package service

import (
	"context"
	"strings"

	"github.com/onfly/isp-portal-bff-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Tickets — /v1/contracts/{contractId}/tickets
// ============================================================

func (p *Portal) ListTickets(ctx context.Context, doc, contractID string) ([]domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "Portal.ListTickets")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", contractID))

	tickets, err := p.store.ListTickets(ctx, doc, contractID)
	if err != nil {
		p.metrics.IncrUpstreamError("chamado_list")
		return nil, err
	}
	return tickets, nil
}

func (p *Portal) OpenTicket(ctx context.Context, contractID string, req domain.OpenTicketRequest) (*domain.OpenTicketResult, error) {
	ctx, span := tracer.Start(ctx, "Portal.OpenTicket")
	defer span.End()
	span.SetAttributes(
		attribute.String("contract.id", contractID),
		attribute.Int("ticket.type_id", req.TypeID),
	)

	if req.TypeID <= 0 {
		return nil, &domain.ErrValidation{Field: "type_id", Message: "tipo de ocorrência é obrigatório"}
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return nil, &domain.ErrValidation{Field: "content", Message: "descreva a ocorrência"}
	}

	result, err := p.store.OpenTicket(ctx, contractID, req)
	if err != nil {
		p.metrics.IncrUpstreamError("chamado")
		return nil, err
	}

	p.logger.Info("ticket opened",
		zap.String("contract_id", contractID),
		zap.String("protocol", result.Protocol),
	)
	return result, nil
}

// ListTicketTypes returns the occurrence catalogue. The catalogue barely
// changes, so it is cached under a single key.
func (p *Portal) ListTicketTypes(ctx context.Context, doc string) ([]domain.TicketType, error) {
	ctx, span := tracer.Start(ctx, "Portal.ListTicketTypes")
	defer span.End()

	const key = "ticket_types"
	if cached, ok := p.typesCache.Get(key); ok {
		p.metrics.IncrCacheHit("ticket_types")
		return cached, nil
	}
	p.metrics.IncrCacheMiss("ticket_types")

	types, err := p.store.ListTicketTypes(ctx, doc)
	if err != nil {
		p.metrics.IncrUpstreamError("tipoocorrencia_list")
		return nil, err
	}

	p.typesCache.Set(key, types)
	return types, nil
}

// ============================================================
// Usage — GET /v1/contracts/{contractId}/usage
// ============================================================

// GetUsage returns the month's traffic statement. The Central endpoint
// wants the contract's service password, which lives on the normalized
// contract, so the customer is resolved first (usually a cache hit).
func (p *Portal) GetUsage(ctx context.Context, doc, contractID string, year, month int) ([]domain.UsageRecord, error) {
	ctx, span := tracer.Start(ctx, "Portal.GetUsage")
	defer span.End()
	span.SetAttributes(
		attribute.String("contract.id", contractID),
		attribute.Int("usage.year", year),
		attribute.Int("usage.month", month),
	)

	if month < 1 || month > 12 {
		return nil, &domain.ErrValidation{Field: "month", Message: "mês inválido"}
	}
	if year < 2000 {
		return nil, &domain.ErrValidation{Field: "year", Message: "ano inválido"}
	}

	user, err := p.GetUser(ctx, doc)
	if err != nil {
		return nil, err
	}

	var password string
	for i := range user.Contracts {
		if user.Contracts[i].ID != contractID {
			continue
		}
		if user.Contracts[i].ServicePassword != nil {
			password = *user.Contracts[i].ServicePassword
		}
		break
	}
	if password == "" {
		return nil, &domain.ErrNotFound{Resource: "service credentials", ID: contractID}
	}

	records, err := p.store.GetUsage(ctx, doc, password, contractID, year, month)
	if err != nil {
		p.metrics.IncrUpstreamError("extratouso")
		return nil, err
	}
	return records, nil
}
