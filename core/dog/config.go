package dog

// Config holds configuration for the dog_trainer API client.
type Config struct {
	// URL is the base URL of the V2 API.
	URL string `mapstructure:"url" default:"http://dog:8000/api/V2"`
	// Token is the bearer token sent with every request.
	Token string `mapstructure:"token" default:""`
	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout float64 `mapstructure:"request_timeout" default:"300"`
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" default:"false"`
}
