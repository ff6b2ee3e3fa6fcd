package normalize

import (
	"strings"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
)

// artifactChain is a declarative fallback order for one payment artifact.
// Direct keys are tried on the record itself; nested keys are tried last,
// on the first element of an embedded single-element "links" list, which is
// how the second-copy endpoint ships the same artifacts under other names.
type artifactChain struct {
	direct []string
	nested []string
}

var (
	pixChain = artifactChain{
		direct: []string{"codigopix", "codigoPix", "pixCode"},
		nested: []string{"codigopix", "codigoPix"},
	}
	barcodeChain = artifactChain{
		direct: []string{"linhaDigitavel", "linhadigitavel", "linha_digitavel"},
		nested: []string{"linhaDigitavel", "linhadigitavel"},
	}
	documentNumberChain = artifactChain{
		direct: []string{"numeroDocumento", "numerodocumento"},
		nested: []string{"numeroDocumento"},
	}
	pdfChain = artifactChain{
		direct: []string{"link", "link_cobranca", "link_boleto"},
		nested: []string{"link"},
	}
)

// extract walks the chain and returns the first non-empty trimmed value,
// or nil when nothing in the chain matches. Whitespace-only values fall
// through to the next candidate.
func (c artifactChain) extract(r Raw) *string {
	if s, ok := r.FirstString(c.direct...); ok {
		return &s
	}
	if links, ok := r.List("links"); ok && len(links) > 0 {
		if s, ok := links[0].FirstString(c.nested...); ok {
			return &s
		}
	}
	return nil
}

// Invoice maps one raw title record to the canonical model. The same
// function handles both the flat "titulos" shape and the alternate "links"
// sub-list shape, whose records rename the identifier to "fatura" and the
// due date to "vencimento".
func Invoice(r Raw) domain.Invoice {
	id, _ := r.FirstString("id", "fatura")
	contractID, _ := r.FirstString("clienteContrato", "contrato", "contratoId")
	amount, _ := r.Number("valor")
	dueDate, _ := r.FirstString("dataVencimento", "vencimento", "vencimento_original")

	return domain.Invoice{
		ID:             id,
		ContractID:     contractID,
		Amount:         amount,
		DueDate:        dueDate,
		Status:         classifyInvoiceStatus(firstOr(r, "status", "status_display")),
		PixKey:         pixChain.extract(r),
		BarcodeLine:    barcodeChain.extract(r),
		DocumentNumber: documentNumberChain.extract(r),
		PDFLink:        pdfChain.extract(r),
	}
}

// Invoices maps a raw title list preserving upstream order.
func Invoices(rs []Raw) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(rs))
	for _, r := range rs {
		out = append(out, Invoice(r))
	}
	return out
}

// classifyInvoiceStatus buckets the free-text title status. Unmatched or
// genuinely open statuses ("aberto") land on pending.
func classifyInvoiceStatus(status string) domain.InvoiceStatus {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "pago") || strings.Contains(s, "liquidado"):
		return domain.InvoicePaid
	case strings.Contains(s, "vencido") || strings.Contains(s, "atrasado"):
		return domain.InvoiceOverdue
	default:
		return domain.InvoicePending
	}
}

// AttachInvoices cross-links a flat invoice list onto contracts by string
// equality of the contract id. Both sides were stringified during mapping,
// so numeric upstream ids match their string form. Invoices that reference
// no known contract are returned as orphans for the caller to decide on.
func AttachInvoices(contracts []domain.Contract, invoices []domain.Invoice) (orphans []domain.Invoice) {
	byID := make(map[string]int, len(contracts))
	for i := range contracts {
		byID[contracts[i].ID] = i
	}
	for _, inv := range invoices {
		if i, ok := byID[inv.ContractID]; ok {
			contracts[i].Invoices = append(contracts[i].Invoices, inv)
		} else {
			orphans = append(orphans, inv)
		}
	}
	return orphans
}
