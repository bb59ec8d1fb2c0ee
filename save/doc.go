// Package save implements exclusive, bounds-checked access to cartridge
// save media.
//
// It is platform-agnostic and interacts with storage via the
// [hal.Backend] interface defined in the
// [github.com/ardnew/softsave/save/hal] package. The HAL exposes raw
// read, verify, erase, and write operations, allowing media vendors to
// provide concrete backends without changing this layer.
//
// # Save Media Types
//
// There are, broadly speaking, three kinds of save media found in
// cartridges:
//
//   - Battery-backed SRAM: accessed like normal memory, up to 32KiB.
//   - EEPROM: cheap, slow chips accessed over a serial interface, in
//     8KiB and 512 byte versions which cannot be distinguished at
//     runtime.
//   - Flash: readable like ordinary memory, but written by issuing
//     command sequences, in 64KiB and 128KiB variants.
//
// The media type cannot be auto-detected, so startup code must register
// exactly one backend before any access:
//
//	save.UseFlash128K(driver) // or UseSRAM, UseFlash64K, UseEEPROM512B, UseEEPROM8K
//
// Registering a second backend is a startup bug and panics.
//
// # Architecture
//
// The package is organized into a few small pieces:
//
//   - The backend registry holds the single registered [hal.Backend]
//   - A global exclusivity lock guarantees at most one live [Access]
//   - [Access] validates and forwards read/verify/prepare calls
//   - [PreparedBlock] unlocks writes within one prepared byte range
//   - [hal.Timeout] bounds backend busy-waits for one session
//
// # Sessions
//
// [New] (or [NewWithTimer]) acquires the exclusivity lock and returns an
// Access. A second Access while one is live fails fast with
// [pkg.ErrMediaInUse] rather than blocking; this is the defense against
// an interrupt handler attempting save access mid-operation. Close the
// Access to release the media:
//
//	a, err := save.New()
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	buf := make([]byte, 1000)
//	if err := a.Read(0, buf); err != nil {
//	    return err
//	}
//
// # Writing
//
// Writing requires preparing the target range first. PrepareWrite erases
// every sector overlapping the range on media that needs it, and returns
// a [PreparedBlock] restricted to the range originally requested:
//
//	block, err := a.PrepareWrite(500, 600)
//	if err != nil {
//	    return err
//	}
//	defer block.Close()
//	if err := block.WriteAndVerify(500, data); err != nil {
//	    return err
//	}
//
// Because erasure is sector-granular, preparing 4000..5000 on media with
// 4096 byte sectors clears 0..8192. Use [Access.SectorSize] or
// [Access.AlignRange] to predict the affected range. Only one
// PreparedBlock may be outstanding per Access at a time.
//
// # Performance Notes
//
//   - SRAM has no sector concept; reads and writes at any alignment are
//     efficient and no timer is needed.
//   - Flash chips with 4096 byte sectors erase a whole sector on
//     PrepareWrite; supply a timer so stuck busy-flags time out.
//   - EEPROM has 8 byte sectors; unaligned access is slower but the
//     small sector size keeps the cost down.
package save
