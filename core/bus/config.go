package bus

// Config holds configuration for run event publishing.
type Config struct {
	// URL is the NATS server URL. Publishing is disabled when empty.
	URL string `mapstructure:"url" default:""`
	// Stream is the JetStream stream that captures run events.
	Stream string `mapstructure:"stream" default:"DOG_INVENTORY"`
	// Subject is the subject run events are published on.
	Subject string `mapstructure:"subject" default:"dog.inventory.reconciled"`
}
