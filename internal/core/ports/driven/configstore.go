package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// GetString retrieves a string value, empty when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, 0 when absent.
	GetInt(key string) int

	// GetFloat retrieves a float value, 0 when absent.
	GetFloat(key string) float64

	// GetStringSlice retrieves a string slice value, nil when absent.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Path returns the configuration file path.
	Path() string
}
