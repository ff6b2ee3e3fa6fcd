package sgp

import (
	"context"
	"strconv"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/normalize"

	"go.opentelemetry.io/otel/attribute"
)

// GetUsage fetches the monthly traffic statement for a contract. The Central
// endpoint authenticates with the contract's own service password on top of
// the provider token.
func (c *Client) GetUsage(ctx context.Context, documentID, servicePassword, contractID string, year, month int) ([]domain.UsageRecord, error) {
	ctx, span := tracer.Start(ctx, "SGP.GetUsage")
	defer span.End()
	span.SetAttributes(
		attribute.String("contract.id", contractID),
		attribute.Int("usage.year", year),
		attribute.Int("usage.month", month),
	)

	var records []domain.UsageRecord
	err := c.withResilience(ctx, func() error {
		body, err := c.doForm(ctx, "api/central/extratouso", map[string]string{
			"cpfcnpj":  documentID,
			"senha":    servicePassword,
			"contrato": contractID,
			"ano":      strconv.Itoa(year),
			"mes":      strconv.Itoa(month),
		})
		if err != nil {
			return err
		}

		resp := normalize.FromObject(body)
		rawList, _ := resp.List("list")
		records = normalize.UsageRecords(rawList)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}
