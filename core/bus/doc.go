// Package bus publishes run events to NATS JetStream.
//
// Downstream consumers (config management pipelines, dashboards) subscribe
// to the reconciled subject to learn when a new inventory is available.
package bus
