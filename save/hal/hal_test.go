package hal

import "testing"

func TestMediaType_String(t *testing.T) {
	tests := []struct {
		media MediaType
		want  string
	}{
		{MediaTypeSRAM32K, "SRAM 32K"},
		{MediaTypeEEPROM8K, "EEPROM 8K"},
		{MediaTypeEEPROM512B, "EEPROM 512B"},
		{MediaTypeFlash64K, "Flash 64K"},
		{MediaTypeFlash128K, "Flash 128K"},
		{MediaTypeCustom, "Custom"},
		{MediaType(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.media.String(); got != tt.want {
				t.Errorf("MediaType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMediaInfo_Geometry(t *testing.T) {
	tests := []struct {
		name           string
		info           MediaInfo
		wantSectorSize int
		wantSize       int
	}{
		{"sram 32k", MediaInfo{MediaType: MediaTypeSRAM32K, SectorShift: 0, SectorCount: 32 * 1024}, 1, 32 * 1024},
		{"eeprom 512b", MediaInfo{MediaType: MediaTypeEEPROM512B, SectorShift: 3, SectorCount: 64}, 8, 512},
		{"eeprom 8k", MediaInfo{MediaType: MediaTypeEEPROM8K, SectorShift: 3, SectorCount: 1024}, 8, 8 * 1024},
		{"flash 64k", MediaInfo{MediaType: MediaTypeFlash64K, SectorShift: 12, SectorCount: 16}, 4096, 64 * 1024},
		{"flash 128k", MediaInfo{MediaType: MediaTypeFlash128K, SectorShift: 12, SectorCount: 32}, 4096, 128 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.SectorSize(); got != tt.wantSectorSize {
				t.Errorf("SectorSize() = %d, want %d", got, tt.wantSectorSize)
			}
			if got := tt.info.Size(); got != tt.wantSize {
				t.Errorf("Size() = %d, want %d", got, tt.wantSize)
			}
			if got := tt.info.SectorCount << tt.info.SectorShift; got != tt.info.Size() {
				t.Errorf("SectorCount << SectorShift = %d, want Size() = %d", got, tt.info.Size())
			}
		})
	}
}

type fakeTimer struct {
	started bool
	elapsed bool
}

func (f *fakeTimer) Start()        { f.started = true }
func (f *fakeTimer) Elapsed() bool { return f.elapsed }

func TestNewTimeout(t *testing.T) {
	timer := &fakeTimer{}
	timeout := NewTimeout(timer)

	if !timer.started {
		t.Error("NewTimeout did not start the timer")
	}
	if timeout.Elapsed() {
		t.Error("Elapsed() = true before timer elapsed")
	}

	timer.elapsed = true
	if !timeout.Elapsed() {
		t.Error("Elapsed() = false after timer elapsed")
	}
}

func TestTimeout_NoTimer(t *testing.T) {
	timeout := NewTimeout(nil)
	if timeout.Elapsed() {
		t.Error("Elapsed() = true with no timer")
	}
}

func TestTimeout_Nil(t *testing.T) {
	var timeout *Timeout
	if timeout.Elapsed() {
		t.Error("Elapsed() = true on nil Timeout")
	}
}
