package config

import "testing"

func TestLoad(t *testing.T) {
	cfg, err := Load(".")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Knowledge.Entity != "CFG Ukraine" {
		t.Errorf("got entity %q, want CFG Ukraine", cfg.Knowledge.Entity)
	}
	if len(cfg.Knowledge.Crops) != 6 {
		t.Errorf("got %d crops, want 6", len(cfg.Knowledge.Crops))
	}
	if cfg.Knowledge.Financials.Budget.NetIncome != 97000000 {
		t.Errorf("got budget net income %.0f, want 97000000", cfg.Knowledge.Financials.Budget.NetIncome)
	}
	if len(cfg.Patterns.Signals) != 4 {
		t.Errorf("got %d signal sets, want 4", len(cfg.Patterns.Signals))
	}
	for _, cat := range []string{"DESCRIPTIVE", "DIAGNOSTIC", "PREDICTIVE", "PRESCRIPTIVE"} {
		if len(cfg.Patterns.Signals[cat].Strong) == 0 {
			t.Errorf("no strong signals for %s", cat)
		}
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config dir")
	}
}

func TestCostPerTon(t *testing.T) {
	cfg, err := Load(".")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	tests := []struct {
		crop string
		want float64
	}{
		{"winter_wheat", 115},
		{"winter_osr", 270},
		{"maize", 118},
		{"soybean", 150},   // no benchmark, default
		{"sunflower", 150}, // no benchmark, default
	}
	for _, tt := range tests {
		if got := cfg.Knowledge.CostPerTon(tt.crop); got != tt.want {
			t.Errorf("CostPerTon(%q) = %.0f, want %.0f", tt.crop, got, tt.want)
		}
	}
}

func TestResolveCrop(t *testing.T) {
	cfg, err := Load(".")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	tests := []struct {
		text string
		want string
	}{
		{"What is the gross margin for winter wheat?", "winter_wheat"},
		{"how profitable is corn", "maize"},
		{"canola outlook", "winter_osr"},
		{"soybean margin", "soybean"},
		{"What is revenue for 2025?", ""},
	}
	for _, tt := range tests {
		if got := cfg.Knowledge.ResolveCrop(tt.text); got != tt.want {
			t.Errorf("ResolveCrop(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
