// Package messaging publishes events to a message broker.
//
// Callers depend on Publisher only; the driver (Kafka, NATS, NSQ or Google
// Pub/Sub) is chosen from configuration by NewFromDriver.
package messaging
