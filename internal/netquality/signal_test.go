package netquality_test

import (
	"testing"

	"github.com/onfly/isp-portal-bff-go/internal/domain"
	"github.com/onfly/isp-portal-bff-go/internal/netquality"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestSignalPercentage_Clamped(t *testing.T) {
	cases := []struct {
		rssi int
		want int
	}{
		{-100, 0},
		{-90, 20},
		{-60, 80},
		{-50, 100},
		{-30, 100}, // clamped high
		{-120, 0},  // clamped low
	}
	for _, tc := range cases {
		if got := netquality.SignalPercentage(tc.rssi); got != tc.want {
			t.Errorf("SignalPercentage(%d) = %d, want %d", tc.rssi, got, tc.want)
		}
	}
}

func TestSignalPercentage_Monotonic(t *testing.T) {
	prev := -1
	for rssi := -120; rssi <= -30; rssi++ {
		pct := netquality.SignalPercentage(rssi)
		if pct < prev {
			t.Fatalf("percentage decreased at rssi %d: %d < %d", rssi, pct, prev)
		}
		prev = pct
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	cases := []struct {
		pct  int
		want domain.QualityTier
	}{
		{100, domain.TierExcellent},
		{80, domain.TierExcellent}, // boundary inclusive
		{79, domain.TierGood},
		{60, domain.TierGood},
		{59, domain.TierFair},
		{40, domain.TierFair},
		{39, domain.TierWeak},
		{0, domain.TierWeak},
	}
	for _, tc := range cases {
		if got := netquality.TierFor(tc.pct); got != tc.want {
			t.Errorf("TierFor(%d) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestInterpret_RSSIUnavailable(t *testing.T) {
	snap := netquality.Interpret(domain.ConnectivitySnapshot{})
	if snap.QualityTier != domain.TierUnavailable {
		t.Errorf("expected unavailable tier, got %s", snap.QualityTier)
	}
	if snap.SignalPercentage != 0 {
		t.Errorf("expected 0%%, got %d", snap.SignalPercentage)
	}
}

func TestInterpret_ExcellentBoundary(t *testing.T) {
	snap := netquality.Interpret(domain.ConnectivitySnapshot{RSSI: intPtr(-60)})
	if snap.SignalPercentage != 80 {
		t.Errorf("expected 80%%, got %d", snap.SignalPercentage)
	}
	if snap.QualityTier != domain.TierExcellent {
		t.Errorf("expected excellent, got %s", snap.QualityTier)
	}
}

func TestInterpret_WeakFloor(t *testing.T) {
	snap := netquality.Interpret(domain.ConnectivitySnapshot{RSSI: intPtr(-100)})
	if snap.SignalPercentage != 0 || snap.QualityTier != domain.TierWeak {
		t.Errorf("expected 0%%/weak, got %d%%/%s", snap.SignalPercentage, snap.QualityTier)
	}
}

func TestInterpret_SSIDSentinels(t *testing.T) {
	for _, sentinel := range []string{"Wi-Fi", "<unknown ssid>"} {
		snap := netquality.Interpret(domain.ConnectivitySnapshot{SSID: strPtr(sentinel)})
		if snap.SSID != nil {
			t.Errorf("expected sentinel %q to be treated as absent", sentinel)
		}
	}
	snap := netquality.Interpret(domain.ConnectivitySnapshot{SSID: strPtr("CasaFibra")})
	if snap.SSID == nil || *snap.SSID != "CasaFibra" {
		t.Error("expected real ssid to pass through")
	}
}

func TestBandLabel(t *testing.T) {
	cases := []struct {
		freq *int
		want string
	}{
		{intPtr(5180), "5 GHz"},
		{intPtr(4900), "5 GHz"},
		{intPtr(2437), "2.4 GHz"},
		{intPtr(2400), "2.4 GHz"},
		{intPtr(900), "900 MHz"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := netquality.BandLabel(tc.freq); got != tc.want {
			t.Errorf("BandLabel(%v) = %q, want %q", tc.freq, got, tc.want)
		}
	}
}
