package mem

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ardnew/softsave/pkg"
	"github.com/ardnew/softsave/save/hal"
)

func TestPresetGeometry(t *testing.T) {
	tests := []struct {
		name      string
		backend   *Backend
		media     hal.MediaType
		shift     uint
		count     int
		prepared  bool
		wantSize  int
	}{
		{"sram 32k", NewSRAM32K(), hal.MediaTypeSRAM32K, 0, 32 * 1024, false, 32 * 1024},
		{"eeprom 512b", NewEEPROM512B(), hal.MediaTypeEEPROM512B, 3, 64, false, 512},
		{"eeprom 8k", NewEEPROM8K(), hal.MediaTypeEEPROM8K, 3, 1024, false, 8 * 1024},
		{"flash 64k", NewFlash64K(), hal.MediaTypeFlash64K, 12, 16, true, 64 * 1024},
		{"flash 128k", NewFlash128K(), hal.MediaTypeFlash128K, 12, 32, true, 128 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := tt.backend.Info()
			if err != nil {
				t.Fatalf("Info() error = %v", err)
			}
			if info.MediaType != tt.media {
				t.Errorf("MediaType = %v, want %v", info.MediaType, tt.media)
			}
			if info.SectorShift != tt.shift {
				t.Errorf("SectorShift = %d, want %d", info.SectorShift, tt.shift)
			}
			if info.SectorCount != tt.count {
				t.Errorf("SectorCount = %d, want %d", info.SectorCount, tt.count)
			}
			if info.UsesPrepareWrite != tt.prepared {
				t.Errorf("UsesPrepareWrite = %v, want %v", info.UsesPrepareWrite, tt.prepared)
			}
			if info.Size() != tt.wantSize {
				t.Errorf("Size() = %d, want %d", info.Size(), tt.wantSize)
			}
		})
	}
}

func TestInfoStable(t *testing.T) {
	backend := NewFlash64K()
	first, _ := backend.Info()
	second, _ := backend.Info()
	if first != second {
		t.Error("Info() returned different pointers across calls")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	backend := NewSRAM32K()
	data := []byte("savegame")

	if err := backend.Write(100, data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	buf := make([]byte, len(data))
	if err := backend.Read(100, buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(buf, data) {
		t.Errorf("Read() = %q, want %q", buf, data)
	}

	match, err := backend.Verify(100, data)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !match {
		t.Error("Verify() = false for matching data")
	}

	match, err = backend.Verify(100, []byte("sAvegame"))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if match {
		t.Error("Verify() = true for mismatched data")
	}
}

func TestPrepareWriteErases(t *testing.T) {
	backend := NewFlash64K()

	if err := backend.Write(4096, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := backend.PrepareWrite(1, 1); err != nil {
		t.Fatalf("PrepareWrite() error = %v", err)
	}

	buf := make([]byte, 4)
	if err := backend.Read(4096, buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for i, b := range buf {
		if b != erasedByte {
			t.Errorf("byte %d = 0x%02X after erase, want 0x%02X", i, b, erasedByte)
		}
	}
}

func TestBoundsChecking(t *testing.T) {
	backend := NewEEPROM512B()

	if err := backend.Read(512, make([]byte, 1)); !errors.Is(err, pkg.ErrOutOfBounds) {
		t.Errorf("Read() past end error = %v, want %v", err, pkg.ErrOutOfBounds)
	}
	if err := backend.Write(510, make([]byte, 4)); !errors.Is(err, pkg.ErrOutOfBounds) {
		t.Errorf("Write() past end error = %v, want %v", err, pkg.ErrOutOfBounds)
	}
	if err := backend.PrepareWrite(63, 2); !errors.Is(err, pkg.ErrOutOfBounds) {
		t.Errorf("PrepareWrite() past end error = %v, want %v", err, pkg.ErrOutOfBounds)
	}
}

func TestFaultInjection(t *testing.T) {
	backend := NewSRAM32K()
	injected := errors.New("injected")

	backend.FailReads(injected)
	if err := backend.Read(0, make([]byte, 1)); !errors.Is(err, injected) {
		t.Errorf("Read() error = %v, want %v", err, injected)
	}
	if _, err := backend.Verify(0, make([]byte, 1)); !errors.Is(err, injected) {
		t.Errorf("Verify() error = %v, want %v", err, injected)
	}
	backend.FailReads(nil)

	backend.FailWrites(injected)
	if err := backend.Write(0, []byte{1}); !errors.Is(err, injected) {
		t.Errorf("Write() error = %v, want %v", err, injected)
	}
	backend.FailWrites(nil)

	if err := backend.Read(0, make([]byte, 1)); err != nil {
		t.Errorf("Read() error = %v after clearing fault", err)
	}
}

func TestCorruptNextWrite(t *testing.T) {
	backend := NewSRAM32K()
	data := []byte{0x10, 0x20, 0x30}

	backend.CorruptNextWrite()
	if err := backend.Write(0, data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	match, err := backend.Verify(0, data)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if match {
		t.Error("Verify() = true after corrupted write")
	}

	// Only the first write is corrupted
	if err := backend.Write(0, data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	match, err = backend.Verify(0, data)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !match {
		t.Error("Verify() = false after clean write")
	}
}

func TestBusyTimesOut(t *testing.T) {
	backend := NewFlash64K()
	backend.SetBusy(true)
	backend.SetTimeout(hal.NewTimeout(NewTimer(time.Millisecond)))

	if err := backend.Write(0, []byte{1}); !errors.Is(err, pkg.ErrTimeout) {
		t.Errorf("Write() while busy error = %v, want %v", err, pkg.ErrTimeout)
	}
}

func TestBusyNoTimeout(t *testing.T) {
	backend := NewFlash64K()
	backend.SetBusy(true)

	// With no timeout bound, the simulation aborts instead of spinning
	if err := backend.Read(0, make([]byte, 1)); !errors.Is(err, pkg.ErrTimeout) {
		t.Errorf("Read() while busy error = %v, want %v", err, pkg.ErrTimeout)
	}
}

func TestCallCounters(t *testing.T) {
	backend := NewSRAM32K()

	backend.Info()
	backend.Read(0, make([]byte, 1))
	backend.Read(0, make([]byte, 1))
	backend.Verify(0, make([]byte, 1))
	backend.Write(0, []byte{1})

	calls := backend.Calls()
	if calls.Info != 1 {
		t.Errorf("Calls().Info = %d, want 1", calls.Info)
	}
	if calls.Read != 2 {
		t.Errorf("Calls().Read = %d, want 2", calls.Read)
	}
	if calls.Verify != 1 {
		t.Errorf("Calls().Verify = %d, want 1", calls.Verify)
	}
	if calls.Write != 1 {
		t.Errorf("Calls().Write = %d, want 1", calls.Write)
	}
	if calls.PrepareWrite != 0 {
		t.Errorf("Calls().PrepareWrite = %d, want 0", calls.PrepareWrite)
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer(10 * time.Millisecond)
	if timer.Elapsed() {
		t.Error("Elapsed() = true before Start")
	}

	timer.Start()
	if timer.Elapsed() {
		t.Error("Elapsed() = true immediately after Start")
	}

	time.Sleep(15 * time.Millisecond)
	if !timer.Elapsed() {
		t.Error("Elapsed() = false after deadline passed")
	}
}
