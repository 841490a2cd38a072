package config

const (
	DefaultDirectory  = "./docs"
	DefaultExtension  = ".pdf"
	DefaultWorkers    = 4
	DefaultFormat     = "txt"
	DefaultCacheSize  = 128
	DefaultHost       = "localhost"
	DefaultPort       = 8080
	DefaultDebounceMS = 400
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Directory == "" {
		cfg.Directory = DefaultDirectory
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Export.DefaultFormat == "" {
		cfg.Export.DefaultFormat = DefaultFormat
	}
	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = DefaultCacheSize
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Watch.DebounceMS <= 0 {
		cfg.Watch.DebounceMS = DefaultDebounceMS
	}
	if cfg.Watch.ExportFormat == "" {
		cfg.Watch.ExportFormat = cfg.Export.DefaultFormat
	}
}
