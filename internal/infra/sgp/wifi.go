package sgp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/normalize"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// UpdateWifi pushes new two-band Wi-Fi credentials to the contract's CPE
// through the upstream's CPE management endpoint. The upstream answers with
// a success flag and a user-facing message; a refused change surfaces as
// ErrUpstreamDenied with that message.
func (c *Client) UpdateWifi(ctx context.Context, contractID string, serviceID int, cfg domain.WifiConfig) error {
	ctx, span := tracer.Start(ctx, "SGP.UpdateWifi")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", contractID))

	payload, err := json.Marshal(map[string]string{
		"token":          c.token,
		"contrato":       contractID,
		"servico":        strconv.Itoa(serviceID),
		"wifi_status":    "on",
		"novo_ssid":      cfg.SSID,
		"nova_senha":     cfg.Password,
		"wifi_status_5g": "on",
		"novo_ssid_5g":   cfg.SSID5,
		"nova_senha_5g":  cfg.Password5,
	})
	if err != nil {
		return err
	}

	var body []byte
	err = c.withResilience(ctx, func() error {
		body, err = c.doJSON(ctx, "api/ura/cpemanage", payload)
		return err
	})
	if err != nil {
		return err
	}

	// A refusal is a final answer, not a transport failure: parse it
	// outside the retry loop so denials are never re-sent.
	r := normalize.FromObject(body)
	if ok, _ := r.String("success"); ok == "true" {
		c.logger.Info("sgp: wifi updated", zap.String("contract_id", contractID))
		return nil
	}
	msg, _ := r.String("msg")
	return &domain.ErrUpstreamDenied{Action: "wifi update", Message: msg}
}
