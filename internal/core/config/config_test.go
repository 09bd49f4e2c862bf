package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadConfigRate(t *testing.T) {
	t.Setenv("USD_CLP_RATE", "920")
	cfg := LoadConfig()
	if !cfg.USDToCLP.Equal(decimal.NewFromInt(920)) {
		t.Errorf("USDToCLP = %s, want 920", cfg.USDToCLP)
	}
	if cfg.Port == "" || cfg.Env == "" {
		t.Errorf("defaults missing: port=%q env=%q", cfg.Port, cfg.Env)
	}
}

func TestGetEnvDecimal(t *testing.T) {
	fallback := decimal.NewFromInt(900)

	t.Setenv("USD_CLP_RATE", "950.5")
	if got := getEnvDecimal("USD_CLP_RATE", fallback); got.String() != "950.5" {
		t.Errorf("got %s, want 950.5", got)
	}

	t.Setenv("USD_CLP_RATE", "not-a-number")
	if got := getEnvDecimal("USD_CLP_RATE", fallback); !got.Equal(fallback) {
		t.Errorf("invalid value should fall back, got %s", got)
	}

	t.Setenv("USD_CLP_RATE", "-1")
	if got := getEnvDecimal("USD_CLP_RATE", fallback); !got.Equal(fallback) {
		t.Errorf("non-positive value should fall back, got %s", got)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	if got := getEnv("PORT", "3000"); got != "8080" {
		t.Errorf("got %q, want 8080", got)
	}
	if got := getEnv("SOME_UNSET_KEY_FOR_TEST", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}
