// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider names accepted by the pubsub configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
