package normalize

import (
	"github.com/onfly/isp-portal-bff-go/internal/domain"
)

// Ticket maps one raw occurrence ("chamado") record.
func Ticket(r Raw) domain.Ticket {
	typeID, _ := r.Int("oc_tipo_id")
	status, _ := r.Int("oc_status")
	contractID, _ := r.FirstString("contrato_id", "contrato")

	return domain.Ticket{
		Protocol:    firstOr(r, "oc_protocolo", "protocolo"),
		TypeID:      typeID,
		TypeName:    firstOr(r, "oc_tipo_descricao"),
		Content:     firstOr(r, "oc_conteudo", "conteudo"),
		Status:      status,
		StatusName:  firstOr(r, "oc_status_descricao"),
		OpenedAt:    firstOr(r, "oc_data_cadastro"),
		ClosedAt:    firstOr(r, "oc_data_encerramento"),
		ContractID:  contractID,
		ClientName:  firstOr(r, "cliente"),
		Technician:  firstOr(r, "os_tecnico_responsavel"),
		ServiceNote: firstOr(r, "os_observacao"),
	}
}

// Tickets maps a raw occurrence list preserving upstream order.
func Tickets(rs []Raw) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(rs))
	for _, r := range rs {
		out = append(out, Ticket(r))
	}
	return out
}

// TicketType maps one occurrence-type record.
func TicketType(r Raw) domain.TicketType {
	id, _ := r.Int("id")
	return domain.TicketType{
		ID:   id,
		Name: firstOr(r, "descricao", "nome"),
	}
}

// TicketTypes maps a raw occurrence-type list.
func TicketTypes(rs []Raw) []domain.TicketType {
	out := make([]domain.TicketType, 0, len(rs))
	for _, r := range rs {
		out = append(out, TicketType(r))
	}
	return out
}

// UsageRecord maps one traffic-statement line. The upstream reports bytes
// under a few alternate names; values are exposed in gigabytes.
func UsageRecord(r Raw) domain.UsageRecord {
	const gb = 1 << 30
	down, _ := r.Number("download")
	up, _ := r.Number("upload")
	return domain.UsageRecord{
		Date:       firstOr(r, "data", "date"),
		DownloadGB: down / gb,
		UploadGB:   up / gb,
	}
}

// UsageRecords maps a raw usage list.
func UsageRecords(rs []Raw) []domain.UsageRecord {
	out := make([]domain.UsageRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, UsageRecord(r))
	}
	return out
}
