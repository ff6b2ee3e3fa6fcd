package sgp

import (
	"context"
	"encoding/json"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/normalize"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GetCustomer looks up contracts by CPF/CNPJ. A customer with no contracts
// does not exist as far as the upstream is concerned, so that case maps to
// ErrNotFound. documentID must already be digits-only.
func (c *Client) GetCustomer(ctx context.Context, documentID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "SGP.GetCustomer")
	defer span.End()
	span.SetAttributes(attribute.String("customer.document", documentID))

	payload, err := json.Marshal(map[string]string{
		"token":   c.token,
		"cpfcnpj": documentID,
	})
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = c.withResilience(ctx, func() error {
		body, err := c.doJSON(ctx, "api/ura/consultacliente", payload)
		if err != nil {
			return err
		}

		resp := normalize.FromObject(body)
		rawContracts, ok := resp.List("contratos")
		if !ok || len(rawContracts) == 0 {
			return &domain.ErrNotFound{Resource: "customer", ID: documentID}
		}

		contracts := normalize.Contracts(rawContracts)
		u := normalize.User(documentID, contracts)
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("sgp: customer mapped",
		zap.String("document", documentID),
		zap.Int("contracts", len(user.Contracts)),
	)
	return user, nil
}

// GetInvoices fetches the flat title list for a document. The endpoint is
// form-encoded on this upstream even though its siblings speak JSON.
func (c *Client) GetInvoices(ctx context.Context, documentID string) ([]domain.Invoice, error) {
	ctx, span := tracer.Start(ctx, "SGP.GetInvoices")
	defer span.End()
	span.SetAttributes(attribute.String("customer.document", documentID))

	var invoices []domain.Invoice
	err := c.withResilience(ctx, func() error {
		body, err := c.doForm(ctx, "api/ura/titulos", map[string]string{
			"cpfcnpj": documentID,
		})
		if err != nil {
			return err
		}

		resp := normalize.FromObject(body)
		rawTitles, ok := resp.List("titulos")
		if !ok {
			// Some installations ship the alternate second-copy shape.
			rawTitles, _ = resp.List("links")
		}
		invoices = normalize.Invoices(rawTitles)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return invoices, nil
}
