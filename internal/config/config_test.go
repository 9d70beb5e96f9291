package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dexsource/internal/domain"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *AppConfig {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	return New(t.TempDir(), "test")
}

func TestNew_WritesTemplate(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	c := New(dir, "test")

	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Config.Version)
	assert.Equal(t, "", c.Config.DownloadLocation)
	assert.Equal(t, "{manga:<.>}{vol: Vol. <.>} Ch. {num:3}{title: - <.>}", c.Config.NamingTemplate)
	assert.Equal(t, 15, c.Config.CheckInterval)
	assert.Equal(t, "DEBUG", c.Config.LogLevel)

	require.Contains(t, c.Config.MonitoredManga, "enigma")
	assert.Equal(t, "58d988fb-be92-41a0-8340-17381ab7869a", c.Config.MonitoredManga["enigma"].Manga)
}

func TestAppConfig_RateLimit(t *testing.T) {
	c := newTestConfig(t)

	burst, period := c.RateLimit()
	assert.Equal(t, 3, burst)
	assert.Equal(t, time.Second, period)
}

func TestAppConfig_GetSetting(t *testing.T) {
	c := newTestConfig(t)

	locale, ok := c.GetSetting("locale")
	require.True(t, ok)
	assert.Equal(t, "en", locale)

	languages, ok := c.GetSetting("languages")
	require.True(t, ok)
	assert.Equal(t, []any{"en"}, languages)

	dataSaver, ok := c.GetSetting("data_saver")
	require.True(t, ok)
	assert.Equal(t, false, dataSaver)

	// commented out in the template
	_, ok = c.GetSetting("user_agent")
	assert.False(t, ok)

	_, ok = c.GetSetting("unknown")
	assert.False(t, ok)
}

func TestAppConfig_ImplementsSettingsStore(t *testing.T) {
	var _ domain.SettingsStore = (*AppConfig)(nil)
}

func TestAppConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("DEXSOURCE__DOWNLOAD_LOCATION", "/data/manga")
	t.Setenv("DEXSOURCE__RATE_LIMIT_BURST", "5")
	t.Setenv("DEXSOURCE__RATE_LIMIT_PERIOD", "250")
	t.Setenv("DEXSOURCE__USER_AGENT", "dexsource-test")
	t.Setenv("DEXSOURCE__LANGUAGES", "en,pt-br")
	t.Setenv("DEXSOURCE__DATA_SAVER", "true")
	t.Setenv("DEXSOURCE__CHECK_INTERVAL", "not-a-number")

	c := newTestConfig(t)

	assert.Equal(t, "/data/manga", c.Config.DownloadLocation)
	assert.Equal(t, 15, c.Config.CheckInterval)

	burst, period := c.RateLimit()
	assert.Equal(t, 5, burst)
	assert.Equal(t, 250*time.Millisecond, period)

	ua, ok := c.GetSetting("user_agent")
	require.True(t, ok)
	assert.Equal(t, "dexsource-test", ua)

	languages, _ := c.GetSetting("languages")
	assert.Equal(t, []string{"en", "pt-br"}, languages)

	dataSaver, _ := c.GetSetting("data_saver")
	assert.Equal(t, true, dataSaver)
}

func TestAppConfig_ProcessLines(t *testing.T) {
	c := &AppConfig{Config: &domain.Config{
		LogLevel:        "TRACE",
		LogPath:         "logs/dexsource.log",
		RateLimitBurst:  5,
		RateLimitPeriod: 500,
	}}

	t.Run("replaces existing lines", func(t *testing.T) {
		lines := c.processLines([]string{`logLevel: "DEBUG"`, `#logPath: ""`, "rateLimitBurst: 3", "rateLimitPeriod: 1000"})
		assert.Equal(t, []string{`logLevel: "TRACE"`, `logPath: "logs/dexsource.log"`, "rateLimitBurst: 5", "rateLimitPeriod: 500"}, lines)
	})

	t.Run("appends missing lines", func(t *testing.T) {
		lines := c.processLines([]string{"checkInterval: 15"})
		out := strings.Join(lines, "\n")
		assert.Equal(t, "checkInterval: 15", lines[0])
		assert.Contains(t, out, `logLevel: "TRACE"`)
		assert.Contains(t, out, `logPath: "logs/dexsource.log"`)
		assert.Contains(t, out, "rateLimitBurst: 5")
		assert.Contains(t, out, "rateLimitPeriod: 500")
	})

	t.Run("keeps empty log path commented", func(t *testing.T) {
		c := &AppConfig{Config: &domain.Config{LogLevel: "INFO"}}
		lines := c.processLines([]string{`logPath: "old.log"`})
		assert.Equal(t, `#logPath: ""`, lines[0])
	})
}

func TestAppConfig_UpdateConfig(t *testing.T) {
	c := newTestConfig(t)
	c.Config.LogLevel = "WARN"

	require.NoError(t, c.UpdateConfig())

	data, err := os.ReadFile(filepath.Join(c.Config.ConfigPath, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `logLevel: "WARN"`)
	assert.Contains(t, string(data), "rateLimitBurst: 3")
}

func TestAppConfig_ReloadKeepsEnvOverrides(t *testing.T) {
	t.Setenv("DEXSOURCE__LOCALE", "fr")
	t.Setenv("DEXSOURCE__LANGUAGES", "fr,en")

	c := newTestConfig(t)

	cfgFile := filepath.Join(c.Config.ConfigPath, "config.yaml")
	data, err := os.ReadFile(cfgFile)
	require.NoError(t, err)

	updated := strings.Replace(string(data), `logLevel: "DEBUG"`, `logLevel: "WARN"`, 1)
	updated = strings.Replace(updated, "  cover_quality: 0", "  cover_quality: 2", 1)
	require.NoError(t, os.WriteFile(cfgFile, []byte(updated), 0o644))
	require.NoError(t, viper.ReadInConfig())

	c.reload()

	assert.Equal(t, "WARN", c.Config.LogLevel)

	quality, ok := c.GetSetting("cover_quality")
	require.True(t, ok)
	assert.Equal(t, 2, quality)

	locale, _ := c.GetSetting("locale")
	assert.Equal(t, "fr", locale)

	languages, _ := c.GetSetting("languages")
	assert.Equal(t, []string{"fr", "en"}, languages)
}
