package driven

// ConfigStore provides persistent key-value configuration. Keys use
// dot notation for nested sections (e.g. "llm.provider").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value, "" if absent.
	GetString(key string) string

	// GetInt retrieves an integer configuration value, 0 if absent.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value, false if absent.
	GetBool(key string) bool

	// GetFloat retrieves a float configuration value, 0 if absent.
	GetFloat(key string) float64

	// Set stores a configuration value and persists immediately.
	Set(key string, value any) error

	// Path returns the backing file path, for display.
	Path() string
}
