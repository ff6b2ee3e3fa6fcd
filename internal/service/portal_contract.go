package service

import (
	"context"
	"time"

	"github.com/onfly/isp-portal-bff-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Service access — GET /v1/contracts/{contractId}/access
// ============================================================

func (p *Portal) CheckAccess(ctx context.Context, contractID string) (*domain.ServiceAccess, error) {
	ctx, span := tracer.Start(ctx, "Portal.CheckAccess")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", contractID))

	access, err := p.store.CheckAccess(ctx, contractID)
	if err != nil {
		p.metrics.IncrUpstreamError("verificaacesso")
		return nil, err
	}
	return access, nil
}

// ============================================================
// Trust unlock — POST /v1/contracts/{contractId}/trust-unlock
// ============================================================

func (p *Portal) RequestTrustUnlock(ctx context.Context, contractID string) (*domain.TrustUnlockResult, error) {
	ctx, span := tracer.Start(ctx, "Portal.RequestTrustUnlock")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", contractID))

	result, err := p.store.RequestTrustUnlock(ctx, contractID)
	if err != nil {
		p.metrics.IncrUpstreamError("liberacaopromessa")
		return nil, err
	}
	return result, nil
}

// ============================================================
// Wi-Fi update — PUT /v1/contracts/{contractId}/wifi
// ============================================================

// UpdateWifi validates the credentials, resolves the service id through the
// access check and pushes the change to the CPE. The cached user is dropped
// so the next read reflects the new SSIDs.
func (p *Portal) UpdateWifi(ctx context.Context, doc, contractID string, cfg domain.WifiConfig) error {
	ctx, span := tracer.Start(ctx, "Portal.UpdateWifi")
	defer span.End()
	span.SetAttributes(attribute.String("contract.id", contractID))

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("wifi_update", time.Since(start))
	}()

	if err := validateWifiConfig(cfg); err != nil {
		return err
	}

	// The CPE endpoint needs the internal service id, which only the
	// access check exposes.
	access, err := p.store.CheckAccess(ctx, contractID)
	if err != nil {
		p.metrics.IncrUpstreamError("verificaacesso")
		return err
	}
	if access == nil || access.ServiceID == 0 {
		return &domain.ErrNotFound{Resource: "service", ID: contractID}
	}

	if err := p.store.UpdateWifi(ctx, contractID, access.ServiceID, cfg); err != nil {
		p.metrics.IncrUpstreamError("cpemanage")
		return err
	}

	p.userCache.Delete(userCacheKey(doc))
	p.logger.Info("wifi credentials updated", zap.String("contract_id", contractID))
	return nil
}

func validateWifiConfig(cfg domain.WifiConfig) error {
	if cfg.SSID == "" {
		return &domain.ErrValidation{Field: "ssid", Message: "SSID é obrigatório"}
	}
	if len(cfg.Password) < 8 {
		return &domain.ErrValidation{Field: "password", Message: "senha deve ter ao menos 8 caracteres"}
	}
	if cfg.SSID5 != "" && len(cfg.Password5) < 8 {
		return &domain.ErrValidation{Field: "password_5", Message: "senha 5GHz deve ter ao menos 8 caracteres"}
	}
	return nil
}
