// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BookStore: Book record persistence
//   - FileStore: Raw content and cover persistence
//   - Engine: Opens raw bytes into a navigable, renderable Book
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ConfigStore: Application configuration. Without it, shipped
//     defaults apply.
//   - StatsStore: Reading session persistence. Without it, statistics
//     are kept in memory only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
