package serialport

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/ardnew/softsave/pkg"
	"github.com/ardnew/softsave/save/hal"
)

// Default link parameters for CDC/ACM bridges.
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 2 * time.Second
)

// Config describes the serial link to the remote save agent.
type Config struct {
	// Port is the serial port device name (e.g. /dev/ttyACM0, COM3).
	Port string

	// Baud is the link speed. Zero selects DefaultBaud.
	Baud int

	// ReadTimeout bounds each port read. Zero selects
	// DefaultReadTimeout.
	ReadTimeout time.Duration
}

// Backend is a save media backend reached through a remote agent over a
// serial link. It implements [hal.Backend]; the media geometry is the
// remote cartridge's, fetched once when the link is opened.
type Backend struct {
	mutex   sync.Mutex
	c       codec
	info    *hal.MediaInfo
	timeout *hal.Timeout
	closer  io.Closer
}

// Open dials the serial port described by cfg and performs the hello
// exchange to fetch the remote media geometry.
func Open(cfg Config) (*Backend, error) {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open port %s: %w", cfg.Port, err)
	}
	backend, err := NewBackend(port)
	if err != nil {
		port.Close()
		return nil, err
	}
	backend.closer = port
	pkg.LogInfo(pkg.ComponentSerial, "bridge connected",
		"port", cfg.Port, "media", backend.info.MediaType.String())
	return backend, nil
}

// NewBackend wraps an already-open link and performs the hello
// exchange. It is split from [Open] so tests can supply an in-memory
// pipe served by [Serve].
func NewBackend(rw io.ReadWriter) (*Backend, error) {
	b := &Backend{c: codec{rw: rw}}
	info, err := b.c.hello()
	if err != nil {
		return nil, fmt.Errorf("bridge hello: %w", err)
	}
	b.info = info
	return b, nil
}

// SetTimeout binds the session timeout checked before each command.
func (b *Backend) SetTimeout(t *hal.Timeout) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.timeout = t
}

// guard rejects new commands once the session timeout has elapsed.
// Callers must hold b.mutex.
func (b *Backend) guard() error {
	if b.timeout.Elapsed() {
		return pkg.ErrTimeout
	}
	return nil
}

// Info returns the remote media geometry fetched at link setup.
func (b *Backend) Info() (*hal.MediaInfo, error) {
	return b.info, nil
}

// Read fetches len(buf) bytes at offset from the remote media.
func (b *Backend) Read(offset int, buf []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	return b.c.read(offset, buf)
}

// Verify compares buf against the remote media at offset.
func (b *Backend) Verify(offset int, buf []byte) (bool, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err := b.guard(); err != nil {
		return false, err
	}
	return b.c.verify(offset, buf)
}

// PrepareWrite erases count sectors starting at index sector on the
// remote media.
func (b *Backend) PrepareWrite(sector, count int) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	return b.c.erase(sector, count)
}

// Write commits buf to the remote media at offset.
func (b *Backend) Write(offset int, buf []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	return b.c.write(offset, buf)
}

// Close releases the serial port, if the backend owns one.
func (b *Backend) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closer == nil {
		return nil
	}
	err := b.closer.Close()
	b.closer = nil
	return err
}
