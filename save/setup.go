package save

import (
	"github.com/ardnew/softsave/pkg"
	"github.com/ardnew/softsave/save/hal"
)

// Startup registration conveniences. Each installs the given backend as
// the process-wide save media and logs the media family selected, so
// startup code documents the cartridge configuration at the call site:
//
//	save.UseFlash128K(driver)
//
// Exactly one may be called per process lifetime; a second registration
// panics (see [SetBackend]). The media family named by the call is
// informational only — the installed geometry comes from the backend's
// [hal.MediaInfo], never from which function was used.

// UseSRAM registers a backend for 32KiB battery-backed SRAM.
func UseSRAM(backend hal.Backend) {
	useMedia(hal.MediaTypeSRAM32K, backend)
}

// UseFlash64K registers a backend for a 64KiB flash chip.
func UseFlash64K(backend hal.Backend) {
	useMedia(hal.MediaTypeFlash64K, backend)
}

// UseFlash128K registers a backend for a 128KiB flash chip.
func UseFlash128K(backend hal.Backend) {
	useMedia(hal.MediaTypeFlash128K, backend)
}

// UseEEPROM512B registers a backend for a 512 byte EEPROM.
//
// The 512B and 8K EEPROM families cannot be distinguished at runtime;
// selecting the wrong one is not detectable by this layer.
func UseEEPROM512B(backend hal.Backend) {
	useMedia(hal.MediaTypeEEPROM512B, backend)
}

// UseEEPROM8K registers a backend for an 8KiB EEPROM.
//
// The 512B and 8K EEPROM families cannot be distinguished at runtime;
// selecting the wrong one is not detectable by this layer.
func UseEEPROM8K(backend hal.Backend) {
	useMedia(hal.MediaTypeEEPROM8K, backend)
}

func useMedia(media hal.MediaType, backend hal.Backend) {
	SetBackend(backend)
	pkg.LogInfo(pkg.ComponentRegistry, "save media selected", "media", media.String())
}
