package sgp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/normalize"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CheckAccess asks the upstream whether a contract's service is reachable.
func (c *Client) CheckAccess(ctx context.Context, contractID string) (*domain.ServiceAccess, error) {
	ctx, span := tracer.Start(ctx, "SGP.CheckAccess")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", contractID))

	payload, err := json.Marshal(map[string]string{
		"token":    c.token,
		"contrato": contractID,
	})
	if err != nil {
		return nil, err
	}

	var access *domain.ServiceAccess
	err = c.withResilience(ctx, func() error {
		body, err := c.doJSON(ctx, "api/ura/verificaacesso", payload)
		if err != nil {
			return err
		}
		if body == nil {
			return &domain.ErrNotFound{Resource: "contract", ID: contractID}
		}

		r := normalize.FromObject(body)
		status, _ := r.Int("status")
		serviceID, _ := r.Int("servico_id")
		id, _ := r.FirstString("contratoId", "contrato")
		msg, _ := r.String("msg")
		login, _ := r.String("login")
		name, _ := r.String("razaoSocial")

		access = &domain.ServiceAccess{
			Status:     status,
			Message:    msg,
			ContractID: id,
			ServiceID:  serviceID,
			Login:      login,
			ClientName: name,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return access, nil
}

// RequestTrustUnlock asks for a "liberação por confiança": a temporary
// service unlock while an overdue title is still unpaid. The upstream
// decides; a refusal is not a transport error.
func (c *Client) RequestTrustUnlock(ctx context.Context, contractID string) (*domain.TrustUnlockResult, error) {
	ctx, span := tracer.Start(ctx, "SGP.RequestTrustUnlock")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", contractID))

	var result *domain.TrustUnlockResult
	err := c.withResilience(ctx, func() error {
		body, err := c.doForm(ctx, "api/ura/liberacaopromessa", map[string]string{
			"contrato": contractID,
		})
		if err != nil {
			return err
		}

		r := normalize.FromObject(body)
		msg, _ := r.FirstString("msg", "mensagem")
		status, _ := r.String("status")

		result = &domain.TrustUnlockResult{
			Granted: strings.EqualFold(status, "1") || strings.EqualFold(status, "ok"),
			Message: msg,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("sgp: trust unlock requested",
		zap.String("contract_id", contractID),
		zap.Bool("granted", result.Granted),
	)
	return result, nil
}
