package sgp

import (
	"context"
	"strconv"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/normalize"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ListTickets returns every occurrence for a contract, open or closed.
// oc_status "0" means "all statuses" on this upstream.
func (c *Client) ListTickets(ctx context.Context, documentID, contractID string) ([]domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "SGP.ListTickets")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", contractID))

	var tickets []domain.Ticket
	err := c.withResilience(ctx, func() error {
		body, err := c.doForm(ctx, "api/central/chamado/list", map[string]string{
			"cpfcnpj":   documentID,
			"contrato":  contractID,
			"oc_status": "0",
		})
		if err != nil {
			return err
		}

		// This endpoint answers with a bare JSON array, not an envelope.
		tickets = normalize.Tickets(normalize.FromList(body))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tickets, nil
}

// OpenTicket files a new occurrence under the given type. conteudolimpo "1"
// tells the upstream the content is plain text and needs no HTML stripping.
func (c *Client) OpenTicket(ctx context.Context, contractID string, req domain.OpenTicketRequest) (*domain.OpenTicketResult, error) {
	ctx, span := tracer.Start(ctx, "SGP.OpenTicket")
	defer span.End()
	span.SetAttributes(
		attribute.String("contract.id", contractID),
		attribute.Int("ticket.type_id", req.TypeID),
	)

	var body []byte
	err := c.withResilience(ctx, func() error {
		var err error
		body, err = c.doForm(ctx, "api/ura/chamado", map[string]string{
			"contrato":       contractID,
			"ocorrenciatipo": strconv.Itoa(req.TypeID),
			"conteudo":       req.Content,
			"conteudolimpo":  "1",
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	r := normalize.FromObject(body)
	protocol, ok := r.FirstString("protocolo", "oc_protocolo")
	msg, _ := r.FirstString("msg", "mensagem")
	if !ok || protocol == "" {
		return nil, &domain.ErrUpstreamDenied{Action: "open ticket", Message: msg}
	}

	c.logger.Info("sgp: ticket opened",
		zap.String("contract_id", contractID),
		zap.String("protocol", protocol),
	)
	return &domain.OpenTicketResult{Protocol: protocol, Message: msg}, nil
}

// ListTicketTypes returns the occurrence types available to a customer.
func (c *Client) ListTicketTypes(ctx context.Context, documentID string) ([]domain.TicketType, error) {
	ctx, span := tracer.Start(ctx, "SGP.ListTicketTypes")
	defer span.End()

	var types []domain.TicketType
	err := c.withResilience(ctx, func() error {
		body, err := c.doForm(ctx, "api/central/tipoocorrencia/list", map[string]string{
			"cpfcnpj": documentID,
		})
		if err != nil {
			return err
		}

		types = normalize.TicketTypes(normalize.FromList(body))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return types, nil
}
