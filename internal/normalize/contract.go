package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
)

const defaultDownloadSpeed = 100

var firstIntRe = regexp.MustCompile(`\d+`)

// Contract maps one raw contract record to the canonical model.
// Invoices are left empty; cross-linking happens in AttachInvoices.
func Contract(r Raw) domain.Contract {
	// The contract identifier arrives as "contratoId" on the client
	// endpoint and "contrato" on others; whichever is present wins.
	id, _ := r.FirstString("contratoId", "contrato")

	planName, hasPlan := r.FirstString("servico_plano", "planointernet")
	if !hasPlan {
		planName = "Plano Internet"
	}
	down := planSpeed(planName)

	c := domain.Contract{
		ID:         id,
		Number:     id,
		ClientName: firstOr(r, "razaoSocial", "razaosocial"),
		Plan: domain.Plan{
			Name:          planName,
			Type:          "FIBRA",
			DownloadSpeed: down,
			// The upstream has no upload figure; half of download is the
			// documented approximation, not a measured value.
			UploadSpeed: down / 2,
		},
		Status:          classifyContractStatus(firstOr(r, "contratoStatusDisplay")),
		StatusDisplay:   firstOr(r, "contratoStatusDisplay"),
		Address:         assembleAddress(r),
		ServiceLogin:    r.Optional("servico_login"),
		ServicePassword: r.Optional("servico_senha"),
		WifiSSID:        r.Optional("servico_wifi_ssid"),
		WifiPassword:    r.Optional("servico_wifi_password"),
		WifiSSID5:       r.Optional("servico_wifi_ssid_5"),
		WifiPassword5:   r.Optional("servico_wifi_password_5"),
		RegisteredAt:    firstOr(r, "dataCadastro"),
		Invoices:        []domain.Invoice{},
	}

	// Some endpoints embed the contract's own titles instead of
	// delivering a flat list. Same invoice mapping either way.
	if nested, ok := r.List("titulos"); ok {
		c.Invoices = Invoices(nested)
	} else if nested, ok := r.List("faturas"); ok {
		c.Invoices = Invoices(nested)
	}

	return c
}

// Contracts maps a raw contract list preserving upstream order.
func Contracts(rs []Raw) []domain.Contract {
	out := make([]domain.Contract, 0, len(rs))
	for _, r := range rs {
		out = append(out, Contract(r))
	}
	return out
}

// classifyContractStatus buckets the free-text status display into the four
// canonical states. Matching is a case-insensitive substring test and the
// order matters: active and suspended markers take precedence over
// "pendente", and anything unmatched is inactive.
func classifyContractStatus(display string) domain.ContractStatus {
	s := strings.ToLower(display)
	switch {
	case strings.Contains(s, "ativo") || strings.Contains(s, "liberado"):
		return domain.ContractActive
	case strings.Contains(s, "bloqueado") || strings.Contains(s, "suspenso"):
		return domain.ContractSuspended
	case strings.Contains(s, "pendente"):
		return domain.ContractPending
	default:
		return domain.ContractInactive
	}
}

// planSpeed extracts the first integer from a free-text plan name
// ("FIBRA 300 MEGA" → 300). Plans without digits default to 100.
func planSpeed(name string) int {
	m := firstIntRe.FindString(name)
	if m == "" {
		return defaultDownloadSpeed
	}
	n := 0
	for _, c := range m {
		n = n*10 + int(c-'0')
	}
	return n
}

// assembleAddress joins the address fragments only when street-line data
// exists; contracts without it get nil, not an empty string.
func assembleAddress(r Raw) *string {
	street, ok := r.String("endereco_logradouro")
	if !ok {
		return nil
	}
	number := firstOr(r, "endereco_numero")
	neighborhood := firstOr(r, "endereco_bairro")
	addr := fmt.Sprintf("%s, %s - %s", street, number, neighborhood)
	return &addr
}

func firstOr(r Raw, keys ...string) string {
	s, _ := r.FirstString(keys...)
	return s
}
