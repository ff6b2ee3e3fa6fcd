// Package domain defines the canonical business entities for the portal BFF.
// These models are the strongly-typed form of the loosely-shaped upstream
// payloads and are the only shapes the rest of the service operates on.
package domain

// ============================================================
// User / Contract / Invoice — canonical model
// ============================================================

// ContractStatus is the normalized contract state. Raw upstream status text
// never leaks past the normalizer.
type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractSuspended ContractStatus = "suspended"
	ContractPending   ContractStatus = "pending"
	ContractInactive  ContractStatus = "inactive"
)

// InvoiceStatus is the normalized invoice state.
type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "paid"
	InvoicePending InvoiceStatus = "pending"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// User is a portal customer identified by CPF/CNPJ. Contracts keep
// upstream order.
type User struct {
	DocumentID string     `json:"document_id"` // digits only
	Name       string     `json:"name"`
	Contracts  []Contract `json:"contracts"`
}

// Plan describes the contracted internet plan. UploadSpeed is a documented
// approximation: the upstream exposes no upload figure, so it is half the
// download speed rounded down.
type Plan struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	DownloadSpeed int    `json:"download_speed_mbps"`
	UploadSpeed   int    `json:"upload_speed_mbps"`
}

// Contract is a single service contract. Optional fields are pointers:
// nil means the upstream never sent the field, as opposed to sending it empty.
type Contract struct {
	ID              string         `json:"id"`
	Number          string         `json:"number"`
	ClientName      string         `json:"client_name"`
	Plan            Plan           `json:"plan"`
	Status          ContractStatus `json:"status"`
	StatusDisplay   string         `json:"status_display,omitempty"`
	Address         *string        `json:"address,omitempty"`
	ServiceLogin    *string        `json:"service_login,omitempty"`
	ServicePassword *string        `json:"service_password,omitempty"`
	WifiSSID        *string        `json:"wifi_ssid,omitempty"`
	WifiPassword    *string        `json:"wifi_password,omitempty"`
	WifiSSID5       *string        `json:"wifi_ssid_5,omitempty"`
	WifiPassword5   *string        `json:"wifi_password_5,omitempty"`
	RegisteredAt    string         `json:"registered_at,omitempty"`
	Invoices        []Invoice      `json:"invoices"`
}

// Invoice is a billing title. DueDate is the opaque upstream date string;
// the BFF does not normalize date formats. Payment artifacts are nil when
// no source field in the fallback chain carried a value.
type Invoice struct {
	ID             string        `json:"id"`
	ContractID     string        `json:"contract_id"`
	Amount         float64       `json:"amount"`
	DueDate        string        `json:"due_date"`
	Status         InvoiceStatus `json:"status"`
	PixKey         *string       `json:"pix_key,omitempty"`
	BarcodeLine    *string       `json:"barcode_line,omitempty"`
	DocumentNumber *string       `json:"document_number,omitempty"`
	PDFLink        *string       `json:"pdf_link,omitempty"`
}

// ============================================================
// Service access / unlock / Wi-Fi
// ============================================================

// ServiceAccess is the upstream's view of whether a contract's service
// is currently reachable.
type ServiceAccess struct {
	Status     int    `json:"status"`
	Message    string `json:"message"`
	ContractID string `json:"contract_id"`
	ServiceID  int    `json:"service_id"`
	Login      string `json:"login,omitempty"`
	ClientName string `json:"client_name,omitempty"`
}

// TrustUnlockResult is the outcome of a "liberação por confiança" request.
type TrustUnlockResult struct {
	Granted bool   `json:"granted"`
	Message string `json:"message"`
}

// WifiConfig carries the two-band Wi-Fi credentials for a CPE update.
type WifiConfig struct {
	SSID      string `json:"ssid"`
	Password  string `json:"password"`
	SSID5     string `json:"ssid_5"`
	Password5 string `json:"password_5"`
}

// ============================================================
// Support tickets
// ============================================================

// Ticket is a support occurrence ("chamado") on a contract.
type Ticket struct {
	Protocol    string `json:"protocol"`
	TypeID      int    `json:"type_id"`
	TypeName    string `json:"type_name"`
	Content     string `json:"content"`
	Status      int    `json:"status"`
	StatusName  string `json:"status_name"`
	OpenedAt    string `json:"opened_at"`
	ClosedAt    string `json:"closed_at,omitempty"`
	ContractID  string `json:"contract_id"`
	ClientName  string `json:"client_name,omitempty"`
	Technician  string `json:"technician,omitempty"`
	ServiceNote string `json:"service_note,omitempty"`
}

// TicketType is an occurrence type the customer may open a ticket under.
type TicketType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// OpenTicketRequest is the payload for opening a new ticket.
type OpenTicketRequest struct {
	TypeID  int    `json:"type_id"`
	Content string `json:"content"`
}

// OpenTicketResult is the upstream acknowledgement for a new ticket.
type OpenTicketResult struct {
	Protocol string `json:"protocol"`
	Message  string `json:"message,omitempty"`
}

// ============================================================
// Usage
// ============================================================

// UsageRecord is one line of the monthly traffic statement.
type UsageRecord struct {
	Date       string  `json:"date"`
	DownloadGB float64 `json:"download_gb"`
	UploadGB   float64 `json:"upload_gb"`
}

// ============================================================
// Auth
// ============================================================

// LoginRequest is the portal login payload: a CPF or CNPJ in any format.
type LoginRequest struct {
	Document string `json:"document"`
}

// LoginResponse carries the session token plus the freshly normalized user.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// DocumentCheck is the result of a standalone document validation.
type DocumentCheck struct {
	Valid     bool   `json:"valid"`
	Kind      string `json:"kind"`
	Formatted string `json:"formatted,omitempty"`
}
