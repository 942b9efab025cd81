package otel

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string `envconfig:"ENDPOINT" toml:"endpoint"`
	Enabled  bool   `envconfig:"ENABLED" toml:"enabled"`
	Insecure bool   `envconfig:"INSECURE" toml:"insecure"`
}

// Active reports whether the exporter should be started.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}
