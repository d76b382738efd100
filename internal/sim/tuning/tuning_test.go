package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ConfigFile(t *testing.T) {
	tu, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.Hopper.PeriodTicks != 8 || tu.Hopper.TransferCount != 1 || tu.Hopper.Block != "HOPPER" {
		t.Fatalf("hopper=%+v", tu.Hopper)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("hopper:\n  transfer_count: 4\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tu, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Defaults()
	if tu.Hopper.TransferCount != 4 {
		t.Fatalf("transfer_count=%d want 4", tu.Hopper.TransferCount)
	}
	if tu.Hopper.PeriodTicks != def.Hopper.PeriodTicks || tu.TickRateHz != def.TickRateHz || tu.Pump.Rate != def.Pump.Rate {
		t.Fatalf("defaults lost: %+v", tu)
	}
}

func TestLoad_Invalid(t *testing.T) {
	for _, body := range []string{
		"tick_rate_hz: 0\n",
		"hopper:\n  period_ticks: -1\n",
		"hopper:\n  block: \"\"\n",
		"pump:\n  rate: -5\n",
		"hopper: [1, 2]\n",
	} {
		p := filepath.Join(t.TempDir(), "tuning.yaml")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(p); err == nil {
			t.Fatalf("Load(%q) should fail", body)
		}
	}
}
