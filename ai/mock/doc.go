// Package mock provides test doubles for the ai package interfaces.
//
// The mocks default to deterministic behavior (hash-derived vectors,
// whitespace-collapsing enhancement) so tests are repeatable without any
// external service. Custom behavior is injected through function fields.
package mock
