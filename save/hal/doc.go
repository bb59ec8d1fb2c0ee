// Package hal defines the Hardware Abstraction Layer interface for save
// media backends.
//
// The HAL provides a platform-agnostic interface between the save
// coordination layer and the physical storage attached to the device.
// Media vendors implement this interface to support their storage
// technology without changes to the coordination layer.
//
// # Design Principles
//
// The HAL is designed to be:
//
//   - Minimal: Only expose operations essential for save storage
//   - Generic: No assumptions about the physical storage technology
//   - Flexible: Adaptable to memory-mapped, serial, and command-driven media
//
// The coordination layer implements all validation, locking, and
// sector-alignment logic, leaving the HAL to handle only raw storage
// operations. The coordination layer never inspects [MediaType]; it
// consults only the geometry fields of [MediaInfo], so new media families
// can be added without touching it.
//
// # Interface Overview
//
// The [Backend] interface defines the contract for media backends:
//
//   - Info reports static media geometry
//   - Read and Verify are non-destructive at any validated offset
//   - PrepareWrite erases whole sectors ahead of writing
//   - Write commits bytes at any validated offset
//
// # Implementing a Backend
//
// To implement a backend for a new media family:
//
//  1. Create a type that implements all [Backend] methods
//  2. Return a single [MediaInfo] value from Info for the process lifetime
//  3. Bound every hardware busy-wait by polling the session [Timeout]
//     (implement [TimeoutAware] to receive it)
//  4. Report failures using the sentinel errors in
//     [github.com/ardnew/softsave/pkg], wrapping where detail helps
//
// # Blocking and Timeouts
//
// Backend operations may block while hardware completes a command. A
// backend that polls a busy flag must check the bound [Timeout] in its
// wait loop and abort with [github.com/ardnew/softsave/pkg.ErrTimeout]
// when it has elapsed, rather than hang indefinitely. When no timer was
// supplied for the session, Timeout.Elapsed always reports false.
//
// An in-memory simulated backend for testing is available in
// [github.com/ardnew/softsave/save/hal/mem].
package hal
