package save

import "github.com/ardnew/softsave/pkg"

// PreparedBlock is a byte range of save media that has been prepared
// for writing by [Access.PrepareWrite].
//
// Writes are permitted only within the range originally requested, even
// though preparation may have erased a larger sector-aligned region.
// Close the block to allow a new PrepareWrite on the parent session.
type PreparedBlock struct {
	parent *Access
	start  int
	end    int
	closed bool // guarded by parent.mutex
}

// Start returns the first writable offset of the block.
func (b *PreparedBlock) Start() int {
	return b.start
}

// End returns the offset one past the last writable byte of the block.
func (b *PreparedBlock) End() int {
	return b.end
}

// guard returns an error if the block or its parent session is no
// longer live. Callers must hold parent.mutex.
func (b *PreparedBlock) guard() error {
	if b.closed {
		return pkg.ErrMediaInUse
	}
	return b.parent.guard()
}

// Write writes buf into the save media at offset.
//
// An empty buf succeeds at any offset. Otherwise the write must lie
// entirely within the block's prepared range or it is rejected with
// [pkg.ErrOutOfBounds] before touching hardware.
//
// Multiple overlapping writes to the same memory range without a
// separate call to PrepareWrite will leave the save data in an
// unpredictable state. If an error is returned, the contents of the
// save media are unpredictable.
func (b *PreparedBlock) Write(offset int, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	b.parent.mutex.Lock()
	defer b.parent.mutex.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	if offset < b.start || offset+len(buf) > b.end {
		return pkg.ErrOutOfBounds
	}
	return b.parent.backend.Write(offset, buf)
}

// WriteAndVerify writes buf into the save media at offset, then reads
// it back to confirm the data committed.
//
// A successful write command does not guarantee the data is actually
// stored on all media; WriteAndVerify reports [pkg.ErrWrite] when the
// readback does not match even though the write itself succeeded.
//
// The overlapping-write hazard of [PreparedBlock.Write] applies here
// as well.
func (b *PreparedBlock) WriteAndVerify(offset int, buf []byte) error {
	if err := b.Write(offset, buf); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}
	b.parent.mutex.Lock()
	defer b.parent.mutex.Unlock()
	match, err := b.parent.verify(offset, buf)
	if err != nil {
		return err
	}
	if !match {
		pkg.LogWarn(pkg.ComponentPrepared, "write readback mismatch",
			"offset", offset, "len", len(buf))
		return pkg.ErrWrite
	}
	return nil
}

// Close releases the block, allowing a new PrepareWrite on the parent
// session. It is idempotent.
func (b *PreparedBlock) Close() {
	b.parent.mutex.Lock()
	defer b.parent.mutex.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.parent.prepared = false
}
