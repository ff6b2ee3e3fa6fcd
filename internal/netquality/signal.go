// Package netquality interprets Wi-Fi signal readings and actively samples
// round-trip quality against a reachability endpoint. Interpretation is pure;
// probing is side-effecting and guarded so rounds never overlap.
package netquality

import (
	"fmt"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
)

// SSID values the platform reports when it does not actually know the
// network name. Treated as absent, not as a real SSID.
var ssidSentinels = map[string]bool{
	"Wi-Fi":          true,
	"<unknown ssid>": true,
}

// SignalPercentage converts an RSSI reading in dBm to a 0–100 scale.
// The usable range is -100 dBm (0%) to -50 dBm (100%).
func SignalPercentage(rssiDbm int) int {
	pct := 2 * (rssiDbm + 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// TierFor buckets a signal percentage. Boundaries are inclusive: 80% is
// already excellent.
func TierFor(pct int) domain.QualityTier {
	switch {
	case pct >= 80:
		return domain.TierExcellent
	case pct >= 60:
		return domain.TierGood
	case pct >= 40:
		return domain.TierFair
	default:
		return domain.TierWeak
	}
}

// BandLabel renders the association frequency as a band name, falling back
// to the raw MHz value for exotic frequencies.
func BandLabel(freqMHz *int) string {
	if freqMHz == nil || *freqMHz == 0 {
		return ""
	}
	switch {
	case *freqMHz >= 4900:
		return "5 GHz"
	case *freqMHz >= 2400:
		return "2.4 GHz"
	default:
		return fmt.Sprintf("%d MHz", *freqMHz)
	}
}

// Interpret turns a platform connectivity snapshot into the interpreted
// part of a quality snapshot. Telemetry is left zero; the active prober
// fills it in separately.
func Interpret(cs domain.ConnectivitySnapshot) domain.NetworkQualitySnapshot {
	out := domain.NetworkQualitySnapshot{
		SSID:      cs.SSID,
		IPAddress: cs.IPAddress,
		RSSI:      cs.RSSI,
		Band:      BandLabel(cs.FrequencyMHz),
	}

	if cs.SSID != nil && ssidSentinels[*cs.SSID] {
		out.SSID = nil
	}

	if cs.RSSI == nil {
		out.SignalPercentage = 0
		out.QualityTier = domain.TierUnavailable
		return out
	}

	out.SignalPercentage = SignalPercentage(*cs.RSSI)
	out.QualityTier = TierFor(out.SignalPercentage)
	return out
}
