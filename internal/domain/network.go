package domain

// ============================================================
// Network quality
// ============================================================

// QualityTier buckets the interpreted Wi-Fi signal strength.
type QualityTier string

const (
	TierExcellent   QualityTier = "excellent"
	TierGood        QualityTier = "good"
	TierFair        QualityTier = "fair"
	TierWeak        QualityTier = "weak"
	TierUnavailable QualityTier = "unavailable"
)

// ConnectivitySnapshot is the raw platform-provided view of the device's
// current association. It arrives from the mobile OS collaborator; nil
// fields mean the platform did not report the value.
type ConnectivitySnapshot struct {
	SSID         *string `json:"ssid"`
	IPAddress    *string `json:"ip_address"`
	RSSI         *int    `json:"rssi_dbm"`
	FrequencyMHz *int    `json:"frequency_mhz"`
	LinkSpeed    *int    `json:"link_speed_mbps"`
	RxLinkSpeed  *int    `json:"rx_link_speed_mbps"`
	TxLinkSpeed  *int    `json:"tx_link_speed_mbps"`
}

// Telemetry holds the active-probe results. Latency and jitter are nil when
// every probe attempt in the round was lost.
type Telemetry struct {
	LatencyMs         *float64 `json:"latency_ms"`
	JitterMs          *float64 `json:"jitter_ms"`
	PacketLossPercent float64  `json:"packet_loss_percent"`
}

// NetworkQualitySnapshot is an immutable per-cycle quality reading.
// Each probe cycle produces a fresh value replacing the previous one.
type NetworkQualitySnapshot struct {
	SSID             *string     `json:"ssid"`
	IPAddress        *string     `json:"ip_address"`
	RSSI             *int        `json:"rssi_dbm"`
	Band             string      `json:"band"`
	SignalPercentage int         `json:"signal_percentage"`
	QualityTier      QualityTier `json:"quality_tier"`
	Telemetry        Telemetry   `json:"telemetry"`
}
