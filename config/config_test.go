package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	original := os.Getenv("DATABASE_URL")
	defer os.Setenv("DATABASE_URL", original)

	os.Unsetenv("DATABASE_URL")
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	original := os.Getenv("DATABASE_URL")
	defer os.Setenv("DATABASE_URL", original)

	os.Setenv("DATABASE_URL", "postgresql://localhost:5432/bestellboard_test")
	os.Unsetenv("DEFAULT_CURRENCY")
	os.Unsetenv("LOCALE_FORMAT")
	os.Unsetenv("PORT")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, "de-DE", cfg.LocaleFormat)
	assert.True(t, cfg.IsTest())
}

func TestSetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	testConfig := &Config{AdminToken: "secret", DefaultCurrency: "USD"}
	SetConfig(testConfig)
	assert.Equal(t, testConfig, GetConfig())
}
