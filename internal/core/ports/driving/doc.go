// Package driving defines interfaces that external actors (TUI, CLI) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
// Implementations of these interfaces live in internal/core/services.
//
// The session manager itself is not behind an interface: it is an
// explicit state container constructed once per run and handed to the
// presentation layer, which reads its state and issues its operations
// directly.
package driving
