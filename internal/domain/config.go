package domain

type Config struct {
	Version          string
	ConfigPath       string
	DownloadLocation string                     `yaml:"downloadLocation"`
	NamingTemplate   string                     `yaml:"namingTemplate"`
	CheckInterval    int                        `yaml:"checkInterval"`
	RateLimitBurst   int                        `yaml:"rateLimitBurst"`
	RateLimitPeriod  int                        `yaml:"rateLimitPeriod"` // in milliseconds
	MonitoredManga   map[string]*MonitoredManga `yaml:"monitoredManga"`
	Settings         map[string]any             `yaml:"settings"`
	LogPath          string                     `yaml:"logPath"`
	LogLevel         string                     `yaml:"LogLevel"`
	LogMaxSize       int                        `yaml:"logMaxSize"` // in megabytes
	LogMaxBackups    int                        `yaml:"logMaxBackups"`
}

type MonitoredManga struct {
	Manga string `yaml:"manga"`
}
