package llm

// Float64Ptr returns a pointer to the given float64 value.
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to the given int value.
func IntPtr(v int) *int {
	return &v
}

// clientConfig holds configuration shared by the provider clients.
type clientConfig struct {
	baseURL  string
	apiKey   string
	model    string
	defaults GenerationConfig
}

// Option is a functional option for configuring an LLM client.
type Option func(*clientConfig)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithModel sets the default model name for requests.
// Per-request model settings in Request take precedence.
func WithModel(model string) Option {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithGenerationConfig sets the default generation config.
// Fields set on a Request override it one by one.
func WithGenerationConfig(cfg GenerationConfig) Option {
	return func(c *clientConfig) {
		c.defaults = cfg
	}
}

// WithTemperature sets the default temperature for requests.
func WithTemperature(temp float64) Option {
	return func(c *clientConfig) {
		c.defaults.Temperature = &temp
	}
}

func newClientConfig(baseURL string, opts []Option) (*clientConfig, error) {
	cfg := &clientConfig{baseURL: baseURL}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := cfg.defaults.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
