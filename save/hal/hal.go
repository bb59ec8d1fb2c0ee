package hal

// MediaType identifies the family of save media installed in a cartridge.
type MediaType uint8

// Save media families.
const (
	MediaTypeCustom     MediaType = iota // User-defined save media
	MediaTypeSRAM32K                     // 32KiB battery-backed SRAM or FRAM
	MediaTypeEEPROM8K                    // 8KiB serial EEPROM
	MediaTypeEEPROM512B                  // 512B serial EEPROM
	MediaTypeFlash64K                    // 64KiB flash chip
	MediaTypeFlash128K                   // 128KiB flash chip
)

// String returns a human-readable media family name.
func (m MediaType) String() string {
	switch m {
	case MediaTypeSRAM32K:
		return "SRAM 32K"
	case MediaTypeEEPROM8K:
		return "EEPROM 8K"
	case MediaTypeEEPROM512B:
		return "EEPROM 512B"
	case MediaTypeFlash64K:
		return "Flash 64K"
	case MediaTypeFlash128K:
		return "Flash 128K"
	case MediaTypeCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// MediaInfo describes the static geometry of the installed save media.
//
// A backend produces exactly one MediaInfo for the life of the process
// and must never mutate it after the first call to [Backend.Info].
//
// The 512B and 8K EEPROM families present identical signatures to the
// hardware and cannot be distinguished at runtime; the registration
// caller must select the correct one.
type MediaInfo struct {
	// MediaType is the installed save media family.
	MediaType MediaType

	// SectorShift is the power-of-two exponent of the sector size.
	// Zero means sectors are not in use (sector size 1).
	//
	// (For example, 512 byte sectors would be 9 here.)
	SectorShift uint

	// SectorCount is the size of the save media, in sectors.
	SectorCount int

	// UsesPrepareWrite reports whether media must be prepared (erased)
	// before writing.
	UsesPrepareWrite bool
}

// SectorSize returns the sector size of the media in bytes.
func (i *MediaInfo) SectorSize() int {
	return 1 << i.SectorShift
}

// Size returns the total capacity of the media in bytes.
func (i *MediaInfo) Size() int {
	return i.SectorCount << i.SectorShift
}

// Backend is the capability contract implemented by every save media
// driver.
//
// All methods may block until hardware responds; blocking waits must be
// bounded by the session [Timeout] (see [TimeoutAware]). Offsets and
// lengths are validated by the coordination layer before any method is
// invoked, but backends that can also be driven directly may validate
// defensively.
type Backend interface {
	// Info returns the static media geometry. The returned pointer is
	// the same for every call and the value never changes.
	Info() (*MediaInfo, error)

	// Read copies len(buf) bytes starting at offset into buf.
	// If an error is returned, the contents of buf are unspecified.
	Read(offset int, buf []byte) error

	// Verify compares len(buf) stored bytes starting at offset against
	// buf without mutating anything. It returns whether they match, or
	// an error if the comparison could not be performed.
	Verify(offset int, buf []byte) (bool, error)

	// PrepareWrite erases count sectors starting at sector index
	// sector. Backends whose MediaInfo reports UsesPrepareWrite false
	// may implement this as a no-op.
	PrepareWrite(sector, count int) error

	// Write commits len(buf) bytes starting at offset. Granularity and
	// alignment affect performance only; any validated offset/length
	// must be safe.
	Write(offset int, buf []byte) error
}

// Timer is the hardware countdown collaborator wrapped by [Timeout].
//
// Start arms the countdown; Elapsed reports whether it has run out.
// These are the only operations the save stack requires of a timer.
type Timer interface {
	Start()
	Elapsed() bool
}

// Timeout bounds the blocking hardware waits of a single save session.
//
// A Timeout wraps zero or one [Timer]. With no timer it never reports
// elapsed. The coordination layer owns the Timeout's lifetime and starts
// the timer at session creation; backends poll Elapsed in their
// busy-wait loops and abort with pkg.ErrTimeout when it reports true.
type Timeout struct {
	timer Timer
}

// NewTimeout creates a Timeout around timer, starting it if non-nil.
// A nil timer yields a Timeout that never elapses.
func NewTimeout(timer Timer) *Timeout {
	if timer != nil {
		timer.Start()
	}
	return &Timeout{timer: timer}
}

// Elapsed reports whether the wrapped timer has run out.
// It is safe to call on a nil Timeout, which never elapses.
func (t *Timeout) Elapsed() bool {
	if t == nil || t.timer == nil {
		return false
	}
	return t.timer.Elapsed()
}

// TimeoutAware is implemented by backends that bound their blocking
// waits with the session timeout.
//
// The coordination layer calls SetTimeout with the session's Timeout
// when an accessor is created, and with nil when the session closes.
// Backends must treat a nil Timeout as never elapsed.
type TimeoutAware interface {
	SetTimeout(*Timeout)
}
