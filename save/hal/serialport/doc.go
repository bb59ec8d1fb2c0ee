// Package serialport implements a save media backend bridged over a
// serial link.
//
// It lets the coordination layer on a development host drive real
// cartridge hardware through a small agent running on the device,
// reached over a CDC/ACM serial port. The agent side of the protocol is
// exposed as [Serve], which bridges any [hal.Backend] onto a link, so
// the same code runs on the device (serving the real media driver) and
// in tests (serving a simulated backend over an in-memory pipe).
//
// # Usage
//
//	backend, err := serialport.Open(serialport.Config{Port: "/dev/ttyACM0"})
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//	save.UseFlash128K(backend)
//
// Use [ListPorts] to discover likely CDC/ACM ports on the host.
//
// # Wire Protocol
//
// Each command is a single frame, little-endian:
//
//	request:  op(1) offset(4) length(4) [payload]
//	reply:    status(1) [payload]
//
// Ops are hello, read, verify, erase, and write. The hello reply
// carries the remote media geometry (media type, sector shift, sector
// count, prepare-write flag). Status bytes are
// [github.com/ardnew/softsave/pkg.Status] values and map onto the save
// stack's sentinel errors on the host side.
//
// The erase frame reuses the offset and length fields for sector index
// and sector count.
package serialport
