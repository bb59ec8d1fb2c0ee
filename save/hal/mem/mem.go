package mem

import (
	"bytes"
	"sync"

	"github.com/ardnew/softsave/pkg"
	"github.com/ardnew/softsave/save/hal"
)

// erasedByte is the value flash sectors hold after an erase.
const erasedByte = 0xFF

// Calls counts backend invocations per operation, for test assertions.
type Calls struct {
	Info         int
	Read         int
	Verify       int
	PrepareWrite int
	Write        int
}

// Backend is an in-memory simulated save media backend.
//
// The zero value is not usable; create instances with [New] or one of
// the per-family preset constructors.
type Backend struct {
	mutex sync.Mutex
	info  hal.MediaInfo
	data  []byte

	timeout *hal.Timeout
	calls   Calls

	readErr     error
	writeErr    error
	busy        bool
	corruptNext bool
}

// New creates a simulated backend with the given geometry, filled with
// the erased byte value.
func New(info hal.MediaInfo) *Backend {
	return &Backend{
		info: info,
		data: bytes.Repeat([]byte{erasedByte}, info.Size()),
	}
}

// NewSRAM32K creates a simulated 32KiB battery-backed SRAM:
// no sectoring, no prepare-write.
func NewSRAM32K() *Backend {
	return New(hal.MediaInfo{
		MediaType:   hal.MediaTypeSRAM32K,
		SectorShift: 0,
		SectorCount: 32 * 1024,
	})
}

// NewEEPROM512B creates a simulated 512 byte EEPROM: 64 sectors of
// 8 bytes, no prepare-write.
func NewEEPROM512B() *Backend {
	return New(hal.MediaInfo{
		MediaType:   hal.MediaTypeEEPROM512B,
		SectorShift: 3,
		SectorCount: 64,
	})
}

// NewEEPROM8K creates a simulated 8KiB EEPROM: 1024 sectors of
// 8 bytes, no prepare-write.
func NewEEPROM8K() *Backend {
	return New(hal.MediaInfo{
		MediaType:   hal.MediaTypeEEPROM8K,
		SectorShift: 3,
		SectorCount: 1024,
	})
}

// NewFlash64K creates a simulated 64KiB flash chip: 16 sectors of
// 4096 bytes, erased before writing.
func NewFlash64K() *Backend {
	return New(hal.MediaInfo{
		MediaType:        hal.MediaTypeFlash64K,
		SectorShift:      12,
		SectorCount:      16,
		UsesPrepareWrite: true,
	})
}

// NewFlash128K creates a simulated 128KiB flash chip: 32 sectors of
// 4096 bytes, erased before writing.
func NewFlash128K() *Backend {
	return New(hal.MediaInfo{
		MediaType:        hal.MediaTypeFlash128K,
		SectorShift:      12,
		SectorCount:      32,
		UsesPrepareWrite: true,
	})
}

// SetTimeout binds the session timeout polled by simulated busy-waits.
func (b *Backend) SetTimeout(t *hal.Timeout) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.timeout = t
}

// FailReads makes subsequent Read and Verify calls return err.
// Pass nil to restore normal operation.
func (b *Backend) FailReads(err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.readErr = err
}

// FailWrites makes subsequent PrepareWrite and Write calls return err.
// Pass nil to restore normal operation.
func (b *Backend) FailWrites(err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeErr = err
}

// CorruptNextWrite makes the next Write land with its first byte
// flipped, so a readback verify reports a mismatch while the write
// itself reports success.
func (b *Backend) CorruptNextWrite() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.corruptNext = true
}

// SetBusy simulates a stuck hardware busy flag. While busy, operations
// poll the session timeout and fail with pkg.ErrTimeout once it
// elapses. With no timeout bound the simulation fails immediately
// instead of spinning forever.
func (b *Backend) SetBusy(busy bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.busy = busy
}

// Calls returns the per-operation invocation counts.
func (b *Backend) Calls() Calls {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.calls
}

// Bytes returns a copy of the simulated media contents.
func (b *Backend) Bytes() []byte {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// waitReady models the hardware busy-wait loop. Callers must hold
// b.mutex.
func (b *Backend) waitReady() error {
	if !b.busy {
		return nil
	}
	if b.timeout == nil {
		return pkg.ErrTimeout
	}
	for !b.timeout.Elapsed() {
	}
	return pkg.ErrTimeout
}

// checkBounds validates [offset, offset+length) against the simulated
// capacity. The coordination layer validates before dispatching, but
// this backend may also be driven directly in tests.
func (b *Backend) checkBounds(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(b.data) {
		return pkg.ErrOutOfBounds
	}
	return nil
}

// Info returns the simulated media geometry.
func (b *Backend) Info() (*hal.MediaInfo, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.calls.Info++
	return &b.info, nil
}

// Read copies simulated media contents into buf.
func (b *Backend) Read(offset int, buf []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.calls.Read++
	if err := b.waitReady(); err != nil {
		return err
	}
	if b.readErr != nil {
		return b.readErr
	}
	if err := b.checkBounds(offset, len(buf)); err != nil {
		return err
	}
	copy(buf, b.data[offset:])
	return nil
}

// Verify compares simulated media contents against buf.
func (b *Backend) Verify(offset int, buf []byte) (bool, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.calls.Verify++
	if err := b.waitReady(); err != nil {
		return false, err
	}
	if b.readErr != nil {
		return false, b.readErr
	}
	if err := b.checkBounds(offset, len(buf)); err != nil {
		return false, err
	}
	return bytes.Equal(b.data[offset:offset+len(buf)], buf), nil
}

// PrepareWrite fills count sectors starting at index sector with the
// erased byte value.
func (b *Backend) PrepareWrite(sector, count int) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.calls.PrepareWrite++
	if err := b.waitReady(); err != nil {
		return err
	}
	if b.writeErr != nil {
		return b.writeErr
	}
	size := b.info.SectorSize()
	if sector < 0 || count < 0 || (sector+count)*size > len(b.data) {
		return pkg.ErrOutOfBounds
	}
	region := b.data[sector*size : (sector+count)*size]
	for i := range region {
		region[i] = erasedByte
	}
	return nil
}

// Write commits buf into the simulated media at offset.
func (b *Backend) Write(offset int, buf []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.calls.Write++
	if err := b.waitReady(); err != nil {
		return err
	}
	if b.writeErr != nil {
		return b.writeErr
	}
	if err := b.checkBounds(offset, len(buf)); err != nil {
		return err
	}
	copy(b.data[offset:], buf)
	if b.corruptNext && len(buf) > 0 {
		b.data[offset] ^= 0x01
		b.corruptNext = false
	}
	return nil
}
