// Package mem implements an in-memory simulated save media backend.
//
// This backend is primarily intended for testing and simulation. It
// stores save data in a RAM buffer with configurable geometry, so the
// coordination layer and application save code can be exercised on a
// development host without cartridge hardware.
//
// # Presets
//
// Constructors are provided for each supported media family geometry:
//
//	backend := mem.NewFlash128K() // 32 sectors of 4096 bytes, erased writes
//	save.UseFlash128K(backend)
//
// [New] accepts an arbitrary [hal.MediaInfo] for custom geometry.
//
// # Fault Injection
//
// Tests can force failure paths without hardware:
//
//   - [Backend.FailReads] / [Backend.FailWrites] make operations return
//     a fixed error
//   - [Backend.CorruptNextWrite] lands the next write with a flipped
//     byte so a readback verify reports a mismatch
//   - [Backend.SetBusy] simulates a stuck busy flag, so operations poll
//     the session timeout and surface a timeout error
//   - [Backend.Calls] reports per-operation invocation counts, so tests
//     can assert the backend was (or was not) reached
//
// # Timer
//
// [Timer] is a wall-clock [hal.Timer] for hosted platforms, standing in
// for the hardware countdown timer used on the device:
//
//	a, err := save.NewWithTimer(mem.NewTimer(100 * time.Millisecond))
package mem
