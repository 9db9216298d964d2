package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	t.Parallel()

	// Act
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))

	// Assert
	require.NoError(t, err)
	require.Equal(t, "casablanca_bourse", cfg.DataSource.PrimarySource)
	require.True(t, cfg.DataSource.EnableAlphaVantage)
	require.Equal(t, "demo", cfg.DataSource.AlphaVantageAPIKey)
	require.Equal(t, 10, cfg.DataSource.CacheDurationMinutes)
	require.Equal(t, 20, cfg.DataSource.RequestTimeoutSeconds)
	require.Equal(t, 2, cfg.DataSource.MaxRetries)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "logs/pipeline.log", cfg.LogFile)
	require.False(t, cfg.EnableDataValidation)
	require.Equal(t, "http://localhost:9000", cfg.Endpoints.Yahoo)
	require.Equal(t, 2, cfg.AlphaVantage.Burst)
	require.Equal(t, []string{"ATW", "IAM"}, cfg.Symbols)
	// keys absent from the file keep their defaults
	require.Equal(t, Default().Synthetic, cfg.Synthetic)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join("testdata", "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, Default().DataSource, cfg.DataSource)
	require.Nil(t, cfg.Symbols)
}

func TestLoad_BrokenYAMLFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join("testdata", "broken.yaml"))
	require.ErrorContains(t, err, "parse config")
	require.Equal(t, Default().DataSource, cfg.DataSource)
}

func TestLoad_InvalidValuesReplaced(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	require.ErrorContains(t, err, "max_retries")
	require.ErrorContains(t, err, "request_timeout_seconds")
	require.ErrorContains(t, err, "synthetic.madex_multiplier")
	require.Equal(t, 3, cfg.DataSource.MaxRetries)
	require.Equal(t, 10, cfg.DataSource.RequestTimeoutSeconds)
	require.Equal(t, 1.1, cfg.Synthetic.MADEXMultiplier)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRIMARY_DATA_SOURCE", "manual")
	t.Setenv("ENABLE_YAHOO_FALLBACK", "false")
	t.Setenv("ALPHAVANTAGE_API_KEY", "secret")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("METRICS_ADDR", ":9100")
	t.Setenv("AUTO_FALLBACK", "maybe")
	t.Setenv("CACHE_DURATION_MINUTES", "ten")
	t.Setenv("SYMBOLS", "atw, iam,,bcp ")

	cfg, err := Load(filepath.Join("testdata", "config.yaml"))

	require.Error(t, err)
	require.ErrorContains(t, err, "AUTO_FALLBACK")
	require.ErrorContains(t, err, "CACHE_DURATION_MINUTES")
	require.Equal(t, "manual", cfg.DataSource.PrimarySource)
	require.False(t, cfg.DataSource.EnableYahooFallback)
	require.Equal(t, "secret", cfg.DataSource.AlphaVantageAPIKey)
	require.Equal(t, 5, cfg.DataSource.MaxRetries)
	require.Equal(t, ":9100", cfg.MetricsAddr)
	require.Equal(t, []string{"ATW", "IAM", "BCP"}, cfg.Symbols)
	// unparsable values leave the file value in place
	require.True(t, cfg.AutoFallback)
	require.Equal(t, 10, cfg.DataSource.CacheDurationMinutes)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	// Arrange
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.DataSource.AlphaVantageAPIKey = "k"
	cfg.LogFile = "pipeline.log"

	// Act
	require.NoError(t, cfg.Save(path))
	got, err := Load(path)

	// Assert
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestSplitCSV(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"ATW", "IAM"}, splitCSV(" ATW, ,IAM,"))
	require.Empty(t, splitCSV(""))
}
