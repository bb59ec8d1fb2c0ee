package save

import (
	"sync"

	"github.com/ardnew/softsave/pkg"
	"github.com/ardnew/softsave/save/hal"
)

// Access is a live save media session.
//
// An Access holds the process-wide exclusivity lock for its lifetime:
// at most one exists at any instant, and constructing a second while
// one is outstanding fails with [pkg.ErrMediaInUse]. Call [Access.Close]
// when finished to release the media.
//
// All offsets are validated against the media capacity before any
// backend operation; a range is rejected with [pkg.ErrOutOfBounds]
// whenever its end reaches or exceeds the capacity.
type Access struct {
	backend hal.Backend
	info    *hal.MediaInfo
	timeout *hal.Timeout

	mutex    sync.Mutex
	prepared bool // a PreparedBlock is outstanding
	closed   bool
}

// New acquires the save media and returns a new session, without a
// timer bounding backend busy-waits.
//
// It fails with [pkg.ErrNoMedia] if no backend has been registered, or
// [pkg.ErrMediaInUse] if another session is live.
func New() (*Access, error) {
	return newAccess(nil)
}

// NewWithTimer is like [New] but threads timer into the session
// [hal.Timeout], so backend blocking operations can time out.
func NewWithTimer(timer hal.Timer) (*Access, error) {
	return newAccess(timer)
}

func newAccess(timer hal.Timer) (*Access, error) {
	backend := currentBackend()
	if backend == nil {
		return nil, pkg.ErrNoMedia
	}
	if err := lockMedia(); err != nil {
		pkg.LogWarn(pkg.ComponentAccess, "save media contended")
		return nil, err
	}
	info, err := backend.Info()
	if err != nil {
		unlockMedia()
		return nil, err
	}
	timeout := hal.NewTimeout(timer)
	if aware, ok := backend.(hal.TimeoutAware); ok {
		aware.SetTimeout(timeout)
	}
	pkg.LogDebug(pkg.ComponentAccess, "session opened",
		"media", info.MediaType.String(), "size", info.Size())
	return &Access{
		backend: backend,
		info:    info,
		timeout: timeout,
	}, nil
}

// MediaInfo returns the media geometry underlying this session.
func (a *Access) MediaInfo() *hal.MediaInfo {
	return a.info
}

// MediaType returns the save media family being used.
func (a *Access) MediaType() hal.MediaType {
	return a.info.MediaType
}

// SectorSize returns the sector size of the save media. It is generally
// optimal to write data in blocks aligned to the sector size.
func (a *Access) SectorSize() int {
	return 1 << a.info.SectorShift
}

// Len returns the total length of the save media in bytes.
func (a *Access) Len() int {
	return a.info.SectorCount << a.info.SectorShift
}

// Timeout returns the session timeout polled by backend busy-waits.
func (a *Access) Timeout() *hal.Timeout {
	return a.timeout
}

// checkBounds validates [start, end) against the media capacity.
// No hardware operation happens on a violation.
func (a *Access) checkBounds(start, end int) error {
	if start < 0 || end < start || start >= a.Len() || end >= a.Len() {
		return pkg.ErrOutOfBounds
	}
	return nil
}

// guard returns an error if the session has been closed.
// Callers must hold a.mutex.
func (a *Access) guard() error {
	if a.closed {
		return pkg.ErrMediaInUse
	}
	return nil
}

// Read copies data from the save media into buf, starting at offset.
//
// If an error is returned, the contents of buf are unpredictable.
func (a *Access) Read(offset int, buf []byte) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.guard(); err != nil {
		return err
	}
	if err := a.checkBounds(offset, offset+len(buf)); err != nil {
		return err
	}
	return a.backend.Read(offset, buf)
}

// Verify reports whether the stored bytes starting at offset match buf,
// without mutating anything.
func (a *Access) Verify(offset int, buf []byte) (bool, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.verify(offset, buf)
}

// verify is Verify without the lock, for use from PreparedBlock.
// Callers must hold a.mutex.
func (a *Access) verify(offset int, buf []byte) (bool, error) {
	if err := a.guard(); err != nil {
		return false, err
	}
	if err := a.checkBounds(offset, offset+len(buf)); err != nil {
		return false, err
	}
	return a.backend.Verify(offset, buf)
}

// AlignRange returns the range covering every sector that [start, end)
// overlaps: start rounded down and end rounded up to sector boundaries.
//
// This is the range of memory affected by a [Access.PrepareWrite] call
// on the same input. The result is idempotent and always contains the
// input range.
func (a *Access) AlignRange(start, end int) (int, int) {
	mask := (1 << a.info.SectorShift) - 1
	return start &^ mask, (end + mask) &^ mask
}

// PrepareWrite prepares the byte range [start, end) for writing and
// returns a [PreparedBlock] restricted to exactly that range.
//
// On media that requires preparation, every sector overlapping the
// range is erased first; use [Access.AlignRange] to calculate the
// affected offsets. The erase is sector-granular but the returned
// block's write contract stays offset-precise: writes outside the
// originally requested range are rejected.
//
// Only one PreparedBlock may be outstanding per Access; PrepareWrite
// fails with [pkg.ErrMediaInUse] until the previous block is closed.
func (a *Access) PrepareWrite(start, end int) (*PreparedBlock, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.guard(); err != nil {
		return nil, err
	}
	if err := a.checkBounds(start, end); err != nil {
		return nil, err
	}
	if a.prepared {
		return nil, pkg.ErrMediaInUse
	}
	if a.info.UsesPrepareWrite {
		alignedStart, alignedEnd := a.AlignRange(start, end)
		shift := a.info.SectorShift
		sector := alignedStart >> shift
		count := (alignedEnd - alignedStart) >> shift
		pkg.LogDebug(pkg.ComponentAccess, "erasing sectors",
			"sector", sector, "count", count)
		if err := a.backend.PrepareWrite(sector, count); err != nil {
			return nil, err
		}
	}
	a.prepared = true
	return &PreparedBlock{parent: a, start: start, end: end}, nil
}

// Close releases the save media, ending the session. It is idempotent.
// Any outstanding PreparedBlock becomes inert.
func (a *Access) Close() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	a.prepared = false
	if aware, ok := a.backend.(hal.TimeoutAware); ok {
		aware.SetTimeout(nil)
	}
	unlockMedia()
	pkg.LogDebug(pkg.ComponentAccess, "session closed")
	return nil
}
