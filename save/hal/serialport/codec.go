package serialport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ardnew/softsave/pkg"
	"github.com/ardnew/softsave/save/hal"
)

// Bridge protocol ops.
const (
	opHello  = 0x01 // query remote media geometry
	opRead   = 0x02 // read bytes at offset
	opVerify = 0x03 // compare bytes at offset
	opErase  = 0x04 // erase whole sectors
	opWrite  = 0x05 // write bytes at offset
)

// Frame layout constants.
const (
	headerSize     = 9       // op(1) + offset(4) + length(4)
	helloReplySize = 7       // media(1) + shift(1) + count(4) + prepare(1)
	maxPayload     = 1 << 17 // largest supported media is 128KiB
)

// codec frames bridge commands over an arbitrary byte link. The link is
// an io.ReadWriter rather than a serial port so the agent side and
// tests can run it over an in-memory pipe.
type codec struct {
	rw  io.ReadWriter
	buf [headerSize]byte
}

// readFull fills buf from the link. A zero-byte read indicates the
// port-level read timeout fired with no data pending.
func (c *codec) readFull(buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := c.rw.Read(buf[total:])
		total += n
		if err != nil {
			return err
		}
		if n == 0 {
			return pkg.ErrTimeout
		}
	}
	return nil
}

func (c *codec) writeHeader(op byte, offset, length int) error {
	c.buf[0] = op
	binary.LittleEndian.PutUint32(c.buf[1:5], uint32(offset))
	binary.LittleEndian.PutUint32(c.buf[5:9], uint32(length))
	_, err := c.rw.Write(c.buf[:])
	return err
}

func (c *codec) readHeader() (op byte, offset, length int, err error) {
	if err := c.readFull(c.buf[:]); err != nil {
		return 0, 0, 0, err
	}
	op = c.buf[0]
	offset = int(binary.LittleEndian.Uint32(c.buf[1:5]))
	length = int(binary.LittleEndian.Uint32(c.buf[5:9]))
	return op, offset, length, nil
}

// readStatus reads a reply status byte and converts it to an error.
func (c *codec) readStatus() error {
	if err := c.readFull(c.buf[:1]); err != nil {
		return err
	}
	return pkg.Status(c.buf[0]).Error()
}

func (c *codec) hello() (*hal.MediaInfo, error) {
	if err := c.writeHeader(opHello, 0, 0); err != nil {
		return nil, err
	}
	if err := c.readStatus(); err != nil {
		return nil, err
	}
	var reply [helloReplySize]byte
	if err := c.readFull(reply[:]); err != nil {
		return nil, err
	}
	return &hal.MediaInfo{
		MediaType:        hal.MediaType(reply[0]),
		SectorShift:      uint(reply[1]),
		SectorCount:      int(binary.LittleEndian.Uint32(reply[2:6])),
		UsesPrepareWrite: reply[6] != 0,
	}, nil
}

func (c *codec) read(offset int, buf []byte) error {
	if len(buf) > maxPayload {
		return pkg.ErrOutOfBounds
	}
	if err := c.writeHeader(opRead, offset, len(buf)); err != nil {
		return err
	}
	if err := c.readStatus(); err != nil {
		return err
	}
	return c.readFull(buf)
}

func (c *codec) verify(offset int, buf []byte) (bool, error) {
	if len(buf) > maxPayload {
		return false, pkg.ErrOutOfBounds
	}
	if err := c.writeHeader(opVerify, offset, len(buf)); err != nil {
		return false, err
	}
	if _, err := c.rw.Write(buf); err != nil {
		return false, err
	}
	if err := c.readStatus(); err != nil {
		return false, err
	}
	var match [1]byte
	if err := c.readFull(match[:]); err != nil {
		return false, err
	}
	return match[0] != 0, nil
}

func (c *codec) erase(sector, count int) error {
	if err := c.writeHeader(opErase, sector, count); err != nil {
		return err
	}
	return c.readStatus()
}

func (c *codec) write(offset int, buf []byte) error {
	if len(buf) > maxPayload {
		return pkg.ErrOutOfBounds
	}
	if err := c.writeHeader(opWrite, offset, len(buf)); err != nil {
		return err
	}
	if _, err := c.rw.Write(buf); err != nil {
		return err
	}
	return c.readStatus()
}

// statusFor maps a backend error onto a wire status byte.
func statusFor(err error) pkg.Status {
	switch {
	case err == nil:
		return pkg.StatusSuccess
	case errors.Is(err, pkg.ErrWrite):
		return pkg.StatusWriteFailed
	case errors.Is(err, pkg.ErrTimeout):
		return pkg.StatusTimeout
	case errors.Is(err, pkg.ErrOutOfBounds):
		return pkg.StatusOutOfBounds
	case errors.Is(err, pkg.ErrNoMedia):
		return pkg.StatusNoMedia
	default:
		return pkg.StatusBadCommand
	}
}

// Serve bridges backend onto the link until the link fails or closes.
//
// This is the agent side of the protocol: the device runs Serve around
// its real media driver, and tests run it around a simulated backend.
// The returned error is the link failure that ended the loop.
func Serve(rw io.ReadWriter, backend hal.Backend) error {
	c := codec{rw: rw}
	payload := make([]byte, 4096)

	reply := func(status pkg.Status, data ...byte) error {
		if _, err := rw.Write(append([]byte{byte(status)}, data...)); err != nil {
			return err
		}
		return nil
	}

	for {
		op, offset, length, err := c.readHeader()
		if err != nil {
			return err
		}
		if length < 0 || length > maxPayload {
			if err := reply(pkg.StatusOutOfBounds); err != nil {
				return err
			}
			continue
		}

		switch op {
		case opHello:
			info, err := backend.Info()
			if err != nil {
				if err := reply(statusFor(err)); err != nil {
					return err
				}
				continue
			}
			var geom [helloReplySize]byte
			geom[0] = byte(info.MediaType)
			geom[1] = byte(info.SectorShift)
			binary.LittleEndian.PutUint32(geom[2:6], uint32(info.SectorCount))
			if info.UsesPrepareWrite {
				geom[6] = 1
			}
			if err := reply(pkg.StatusSuccess, geom[:]...); err != nil {
				return err
			}

		case opRead:
			if cap(payload) < length {
				payload = make([]byte, length)
			}
			payload = payload[:length]
			if err := backend.Read(offset, payload); err != nil {
				if err := reply(statusFor(err)); err != nil {
					return err
				}
				continue
			}
			if err := reply(pkg.StatusSuccess, payload...); err != nil {
				return err
			}

		case opVerify:
			if cap(payload) < length {
				payload = make([]byte, length)
			}
			payload = payload[:length]
			if err := c.readFull(payload); err != nil {
				return err
			}
			match, err := backend.Verify(offset, payload)
			if err != nil {
				if err := reply(statusFor(err)); err != nil {
					return err
				}
				continue
			}
			flag := byte(0)
			if match {
				flag = 1
			}
			if err := reply(pkg.StatusSuccess, flag); err != nil {
				return err
			}

		case opErase:
			// offset and length carry sector index and count
			if err := reply(statusFor(backend.PrepareWrite(offset, length))); err != nil {
				return err
			}

		case opWrite:
			if cap(payload) < length {
				payload = make([]byte, length)
			}
			payload = payload[:length]
			if err := c.readFull(payload); err != nil {
				return err
			}
			if err := reply(statusFor(backend.Write(offset, payload))); err != nil {
				return err
			}

		default:
			pkg.LogWarn(pkg.ComponentSerial, "unknown bridge op",
				"op", fmt.Sprintf("0x%02X", op))
			if err := reply(pkg.StatusBadCommand); err != nil {
				return err
			}
		}
	}
}
