package config

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"dexsource/internal/domain"
	"dexsource/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var configTemplate = `# config.yaml

# Download Location
# Needed by the monitor command, e.g. "/data/downloads/manga"
#
# Default: ""
#
downloadLocation: ""

# Naming Template
# This can be used to change how the downloaded chapter will be named
# The default will result something like this: Manga Vol. 2 Ch. 012 - Chapter Title
#
# Default: {manga:<.>}{vol: Vol. <.>} Ch. {num:3}{title: - <.>}
#
namingTemplate: "{manga:<.>}{vol: Vol. <.>} Ch. {num:3}{title: - <.>}"

# Check interval in minutes
#
# Default: 15
#
checkInterval: 15

# Request budget for the MangaDex API
# Up to rateLimitBurst requests are sent at once, after that one request
# every rateLimitPeriod milliseconds
#
# Default: 3 and 1000
#
rateLimitBurst: 3
rateLimitPeriod: 1000

# Monitored Manga
# Here you can define which manga you want to monitor
#
monitoredManga:
  # Custom name you can give the entry to easily distinguish between them
  #
  enigma:
    # ID of the manga on MangaDex
    #
    manga: "58d988fb-be92-41a0-8340-17381ab7869a"

# Source settings
#
settings:
  # User agent sent with every request
  #
  # Default: "Midoku"
  #
  #user_agent: "Midoku"

  # Preferred locale for titles, descriptions and tags
  #
  # Default: "en"
  #
  locale: "en"

  # Chapter languages
  #
  # Default: ["en"]
  #
  languages:
    - "en"

  # Cover quality
  #
  # Options: 0 (original), 1 (512px), 2 (256px)
  #
  # Default: 0
  #
  cover_quality: 0

  # Use compressed images
  #
  # Default: false
  #
  data_saver: false

  # Only use image servers on port 443
  #
  # Default: false
  #
  force_port_443: false

  # Scanlation group and uploader ids whose chapters are hidden
  #
  # Default: []
  #
  blocked_groups: []
  blocked_uploaders: []

# dexsource logs file
# If not defined, logs to stdout
# Make sure to use forward slashes and include the filename with extension. e.g. "logs/dexsource.log", "C:/dexsource/logs/dexsource.log"
#
# Optional
#
#logPath: ""

# Log level
#
# Default: "DEBUG"
#
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
#
logLevel: "DEBUG"

# Log Max Size
#
# Default: 50
#
# Max log size in megabytes
#
#logMaxSize: 50

# Log Max Backups
#
# Default: 3
#
# Max amount of old log files
#
#logMaxBackups = 3
`

func (c *AppConfig) writeConfig(configPath string, configFile string) error {
	cfgPath := filepath.Join(configPath, configFile)

	// check if configPath exists, if not create it
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(configPath, os.ModePerm)
		if err != nil {
			log.Println(err)
			return err
		}
	}

	// check if config exists, if not create it
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {

		f, err := os.Create(cfgPath)
		if err != nil { // perm 0666
			// handle failed create
			log.Printf("error creating file: %q", err)
			return err
		}
		defer f.Close()

		if _, err = f.WriteString(configTemplate); err != nil {
			log.Printf("error writing contents to file: %v %q", configPath, err)
			return err
		}

		return f.Sync()
	}

	return nil
}

type Config interface {
	UpdateConfig() error
	DynamicReload(log logger.Logger)
}

type AppConfig struct {
	Config *domain.Config
	m      *sync.Mutex
}

func New(configPath string, version string) *AppConfig {
	c := &AppConfig{
		m: new(sync.Mutex),
	}
	c.defaults()
	c.Config = &domain.Config{
		Version:    version,
		ConfigPath: configPath,
	}

	c.load(configPath)
	c.loadFromEnv()

	return c
}

// GetSetting returns a source setting from the settings section.
func (c *AppConfig) GetSetting(key string) (any, bool) {
	c.m.Lock()
	defer c.m.Unlock()

	v, ok := c.Config.Settings[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// RateLimit returns the configured request budget.
func (c *AppConfig) RateLimit() (int, time.Duration) {
	return c.Config.RateLimitBurst, time.Duration(c.Config.RateLimitPeriod) * time.Millisecond
}

func (c *AppConfig) defaults() {
	viper.SetDefault("downloadLocation", "")
	viper.SetDefault("namingTemplate", "{manga:<.>}{vol: Vol. <.>} Ch. {num:3}{title: - <.>}")
	viper.SetDefault("checkInterval", 15)
	viper.SetDefault("rateLimitBurst", 3)
	viper.SetDefault("rateLimitPeriod", 1000)
	viper.SetDefault("monitoredManga", make(map[string]*domain.MonitoredManga))
	viper.SetDefault("settings", make(map[string]any))
	viper.SetDefault("logPath", "")
	viper.SetDefault("logLevel", "DEBUG")
	viper.SetDefault("logMaxSize", 50)
	viper.SetDefault("logMaxBackups", 3)
}

func (c *AppConfig) loadFromEnv() {
	prefix := "DEXSOURCE__"

	envs := os.Environ()
	for _, env := range envs {
		if strings.HasPrefix(env, prefix) {
			envPair := strings.SplitN(env, "=", 2)

			if envPair[1] != "" {
				switch envPair[0] {
				case prefix + "DOWNLOAD_LOCATION":
					c.Config.DownloadLocation = envPair[1]
				case prefix + "NAMING_TEMPLATE":
					c.Config.NamingTemplate = envPair[1]
				case prefix + "CHECK_INTERVAL":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.CheckInterval = int(i)
					}
				case prefix + "RATE_LIMIT_BURST":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.RateLimitBurst = int(i)
					}
				case prefix + "RATE_LIMIT_PERIOD":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.RateLimitPeriod = int(i)
					}
				case prefix + "USER_AGENT":
					c.setSetting("user_agent", envPair[1])
				case prefix + "LOCALE":
					c.setSetting("locale", envPair[1])
				case prefix + "LANGUAGES":
					c.setSetting("languages", strings.Split(envPair[1], ","))
				case prefix + "DATA_SAVER":
					if b, err := strconv.ParseBool(envPair[1]); err == nil {
						c.setSetting("data_saver", b)
					}
				case prefix + "LOG_LEVEL":
					c.Config.LogLevel = envPair[1]
				case prefix + "LOG_PATH":
					c.Config.LogPath = envPair[1]
				case prefix + "LOG_MAX_SIZE":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.LogMaxSize = int(i)
					}
				case prefix + "LOG_MAX_BACKUPS":
					if i, _ := strconv.ParseInt(envPair[1], 10, 32); i > 0 {
						c.Config.LogMaxBackups = int(i)
					}
				}
			}
		}
	}
}

func (c *AppConfig) setSetting(key string, value any) {
	if c.Config.Settings == nil {
		c.Config.Settings = make(map[string]any)
	}
	c.Config.Settings[key] = value
}

func (c *AppConfig) load(configPath string) {
	viper.SetConfigType("yaml")

	// clean trailing slash from configPath
	configPath = path.Clean(configPath)
	if configPath != "" {
		// check if path and file exists
		// if not, create path and file
		if err := c.writeConfig(configPath, "config.yaml"); err != nil {
			log.Printf("write error: %q", err)
		}

		viper.SetConfigFile(path.Join(configPath, "config.yaml"))
	} else {
		viper.SetConfigName("config")

		// Search config in directories
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/dexsource")
		viper.AddConfigPath("$HOME/.dexsource")
	}

	// read config
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("config read error: %q", err)
	}

	if err := viper.Unmarshal(c.Config); err != nil {
		log.Fatalf("Could not unmarshal config file: %v: err %q", viper.ConfigFileUsed(), err)
	}
}

func (c *AppConfig) DynamicReload(log logger.Logger) {
	viper.WatchConfig()

	viper.OnConfigChange(func(_ fsnotify.Event) {
		c.reload()
		log.SetLogLevel(c.Config.LogLevel)

		log.Debug().Msg("config file reloaded!")
	})
}

// reload picks up the values that can change at runtime. Environment
// overrides are applied again so they keep winning over the file.
func (c *AppConfig) reload() {
	c.m.Lock()
	defer c.m.Unlock()

	c.Config.LogLevel = viper.GetString("logLevel")
	c.Config.LogPath = viper.GetString("logPath")
	c.Config.Settings = viper.GetStringMap("settings")

	c.loadFromEnv()
}

func (c *AppConfig) UpdateConfig() error {
	filePath := path.Join(c.Config.ConfigPath, "config.yaml")

	f, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("could not read config filePath: %s: %w", filePath, err)
	}

	lines := strings.Split(string(f), "\n")
	lines = c.processLines(lines)

	output := strings.Join(lines, "\n")
	if err := os.WriteFile(filePath, []byte(output), 0o644); err != nil {
		return fmt.Errorf("could not write config file: %s: %w", filePath, err)
	}

	return nil
}

// managedLine is a config key that UpdateConfig keeps in sync with the loaded config.
type managedLine struct {
	key     string
	value   func(c *domain.Config) string
	comment []string
}

var managedLines = []managedLine{
	{
		key: "logLevel",
		value: func(c *domain.Config) string {
			return fmt.Sprintf(`logLevel: "%s"`, c.LogLevel)
		},
		comment: []string{"# Log level", "#", `# Default: "DEBUG"`, "#", `# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"`, "#"},
	},
	{
		key: "logPath",
		value: func(c *domain.Config) string {
			if c.LogPath == "" {
				return `#logPath: ""`
			}
			return fmt.Sprintf(`logPath: "%s"`, c.LogPath)
		},
		comment: []string{"# Log Path", "#", "# Optional", "#"},
	},
	{
		key: "rateLimitBurst",
		value: func(c *domain.Config) string {
			return fmt.Sprintf("rateLimitBurst: %d", c.RateLimitBurst)
		},
		comment: []string{"# Requests sent at once before rate limiting kicks in", "#", "# Default: 3", "#"},
	},
	{
		key: "rateLimitPeriod",
		value: func(c *domain.Config) string {
			return fmt.Sprintf("rateLimitPeriod: %d", c.RateLimitPeriod)
		},
		comment: []string{"# Milliseconds until another request may be sent", "#", "# Default: 1000", "#"},
	},
}

func (c *AppConfig) processLines(lines []string) []string {
	// keep track of not found values to append at bottom
	found := make(map[string]bool, len(managedLines))

	for i, line := range lines {
		for _, ml := range managedLines {
			if !found[ml.key] && strings.Contains(line, ml.key+":") {
				lines[i] = ml.value(c.Config)
				found[ml.key] = true
			}
		}
	}

	for _, ml := range managedLines {
		if found[ml.key] {
			continue
		}
		lines = append(lines, ml.comment...)
		lines = append(lines, ml.value(c.Config))
	}

	return lines
}
