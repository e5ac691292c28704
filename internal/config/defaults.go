package config

// Entry is a single scalar configuration key.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns the scalar configuration keys with their defaults.
// Provider tables are configured under llm_providers and are not listed here.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// Prompts
		{
			Key:         "prompts.dir",
			Value:       d.Prompts.Dir,
			Description: "Template root directory (PROMPT_DIR overrides it)",
		},
		{
			Key:         "prompts.extension",
			Value:       d.Prompts.Extension,
			Description: "Template extension used when a prompt does not set one",
		},
		{
			Key:         "prompts.strict",
			Value:       d.Prompts.Strict,
			Description: "Fail rendering when a template references an unbound variable",
		},

		// Defaults
		{
			Key:         "defaults.llm_provider",
			Value:       d.Defaults.LLMProvider,
			Description: "Model used by generate when none is named",
		},
		{
			Key:         "defaults.max_concurrency",
			Value:       d.Defaults.MaxConcurrency,
			Description: "Maximum prompts generated in parallel by the CLI",
		},

		// Server
		{
			Key:         "server.host",
			Value:       d.Server.Host,
			Description: "HTTP listen host",
		},
		{
			Key:         "server.port",
			Value:       d.Server.Port,
			Description: "HTTP listen port",
		},

		// Call log
		{
			Key:         "llm_calls.capacity",
			Value:       d.LLMCalls.Capacity,
			Description: "Number of generation calls kept in memory",
		},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}
