// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch engine. It
// implements complex business workflows that don't naturally belong to a
// single aggregate root.
//
// The package includes:
//   - Matchmaker: expanding-radius driver search with atomic claiming
//   - PricingService: fare calculation frozen onto orders at creation
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
