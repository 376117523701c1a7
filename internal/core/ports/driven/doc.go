// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - LocalStore: Durable device-local progress persistence
//   - QueueStore: Durable pending-write queue persistence
//   - ConfigStore: Application configuration
//   - Clock: Time source for mutation stamps
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RemoteStore: Multi-device store. Without it, the engine runs
//     local-only and never queues writes.
//   - ConnectivityProbe: Reachability checks. Only meaningful with a
//     RemoteStore.
//   - SessionStore / AuthClient: Session persistence and token refresh.
//     Without them, the engine is permanently unauthenticated.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
