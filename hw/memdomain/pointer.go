package memdomain

import (
	"sync"
	"unsafe"
)

// Pointer is a domain over memory owned by another component (a native core,
// an off-heap mapping...). It holds a non-owning pointer and a length; every
// dereference is preceded by an explicit bounds check, nothing relies on the
// environment to catch overruns.
//
// The owner must keep the memory alive (and call Remap if it moves) for as
// long as the domain is in use.
type Pointer struct {
	info
	data unsafe.Pointer
}

func NewPointer(name string, endian Endian, data unsafe.Pointer, size int64, writable bool, wordSize int) *Pointer {
	return &Pointer{
		info: info{
			name:     name,
			size:     size,
			endian:   endian,
			writable: writable,
			wordSize: wordSize,
		},
		data: data,
	}
}

// Data returns the pointer to the first byte of the domain.
func (d *Pointer) Data() unsafe.Pointer { return d.data }

// Remap points the domain to a new memory area of size bytes.
func (d *Pointer) Remap(data unsafe.Pointer, size int64) {
	d.data = data
	d.size = size
}

func (d *Pointer) at(addr int64) *uint8 {
	return (*uint8)(unsafe.Add(d.data, addr))
}

func (d *Pointer) PeekByte(addr int64) (uint8, error) {
	if err := d.checkAddr(addr); err != nil {
		return 0, err
	}
	return *d.at(addr), nil
}

func (d *Pointer) PokeByte(addr int64, val uint8) error {
	if !d.writable {
		return nil
	}
	if err := d.checkAddr(addr); err != nil {
		return err
	}
	*d.at(addr) = val
	return nil
}

// BulkPeekByte validates the whole range and performs a single block copy.
func (d *Pointer) BulkPeekByte(start int64, dst []byte) error {
	if err := d.checkRange(start, int64(len(dst))); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	copy(dst, unsafe.Slice(d.at(start), len(dst)))
	return nil
}

func (d *Pointer) BulkPeekUint16(start int64, bigEndian bool, dst []uint16) error {
	return bulkPeekUint16(d, start, bigEndian, dst)
}

func (d *Pointer) BulkPeekUint32(start int64, bigEndian bool, dst []uint32) error {
	return bulkPeekUint32(d, start, bigEndian, dst)
}

// PointerMonitor is a Pointer whose accesses are guarded by a lock shared with
// the owner of the memory, which may be mutating (or reallocating) it from
// another goroutine. The lock is held for the duration of each individual
// access, never longer.
type PointerMonitor struct {
	ptr Pointer
	mon sync.Locker
}

func NewPointerMonitor(name string, endian Endian, data unsafe.Pointer, size int64, writable bool, wordSize int, mon sync.Locker) *PointerMonitor {
	return &PointerMonitor{
		ptr: *NewPointer(name, endian, data, size, writable, wordSize),
		mon: mon,
	}
}

func (d *PointerMonitor) Name() string   { return d.ptr.name }
func (d *PointerMonitor) WordSize() int  { return d.ptr.wordSize }
func (d *PointerMonitor) Endian() Endian { return d.ptr.endian }
func (d *PointerMonitor) Writable() bool { return d.ptr.writable }

func (d *PointerMonitor) Size() int64 {
	d.mon.Lock()
	defer d.mon.Unlock()
	return d.ptr.size
}

// Remap points the domain to a new memory area of size bytes. The monitor
// must not be held by the caller.
func (d *PointerMonitor) Remap(data unsafe.Pointer, size int64) {
	d.mon.Lock()
	defer d.mon.Unlock()
	d.ptr.Remap(data, size)
}

func (d *PointerMonitor) PeekByte(addr int64) (uint8, error) {
	d.mon.Lock()
	defer d.mon.Unlock()
	return d.ptr.PeekByte(addr)
}

func (d *PointerMonitor) PokeByte(addr int64, val uint8) error {
	if !d.ptr.writable {
		return nil
	}
	d.mon.Lock()
	defer d.mon.Unlock()
	return d.ptr.PokeByte(addr, val)
}

// BulkPeekByte copies the whole range atomically, under a single lock
// acquisition.
func (d *PointerMonitor) BulkPeekByte(start int64, dst []byte) error {
	d.mon.Lock()
	defer d.mon.Unlock()
	return d.ptr.BulkPeekByte(start, dst)
}

func (d *PointerMonitor) BulkPeekUint16(start int64, bigEndian bool, dst []uint16) error {
	return bulkPeekUint16(d, start, bigEndian, dst)
}

func (d *PointerMonitor) BulkPeekUint32(start int64, bigEndian bool, dst []uint32) error {
	return bulkPeekUint32(d, start, bigEndian, dst)
}

// Swap16 is a Pointer over memory laid out as byte-swapped 16-bit words: the
// low address bit is inverted before each dereference. Its word size is 2.
type Swap16 struct {
	ptr Pointer
}

// NewSwap16 panics if size is odd.
func NewSwap16(name string, endian Endian, data unsafe.Pointer, size int64, writable bool) *Swap16 {
	if size&1 != 0 {
		panic("swap16 domain size must be even")
	}
	return &Swap16{ptr: *NewPointer(name, endian, data, size, writable, 2)}
}

func (d *Swap16) Name() string   { return d.ptr.name }
func (d *Swap16) Size() int64    { return d.ptr.size }
func (d *Swap16) WordSize() int  { return 2 }
func (d *Swap16) Endian() Endian { return d.ptr.endian }
func (d *Swap16) Writable() bool { return d.ptr.writable }

func (d *Swap16) PeekByte(addr int64) (uint8, error) {
	if err := d.ptr.checkAddr(addr); err != nil {
		return 0, err
	}
	return *d.ptr.at(addr ^ 1), nil
}

func (d *Swap16) PokeByte(addr int64, val uint8) error {
	if !d.ptr.writable {
		return nil
	}
	if err := d.ptr.checkAddr(addr); err != nil {
		return err
	}
	*d.ptr.at(addr ^ 1) = val
	return nil
}

func (d *Swap16) BulkPeekByte(start int64, dst []byte) error {
	return bulkPeekByte(d, start, dst)
}

func (d *Swap16) BulkPeekUint16(start int64, bigEndian bool, dst []uint16) error {
	return bulkPeekUint16(d, start, bigEndian, dst)
}

func (d *Swap16) BulkPeekUint32(start int64, bigEndian bool, dst []uint32) error {
	return bulkPeekUint32(d, start, bigEndian, dst)
}

// Swap16Monitor is a Swap16 whose individual accesses are guarded by mon.
type Swap16Monitor struct {
	swap Swap16
	mon  sync.Locker
}

// NewSwap16Monitor panics if size is odd.
func NewSwap16Monitor(name string, endian Endian, data unsafe.Pointer, size int64, writable bool, mon sync.Locker) *Swap16Monitor {
	return &Swap16Monitor{
		swap: *NewSwap16(name, endian, data, size, writable),
		mon:  mon,
	}
}

func (d *Swap16Monitor) Name() string   { return d.swap.Name() }
func (d *Swap16Monitor) Size() int64    { return d.swap.Size() }
func (d *Swap16Monitor) WordSize() int  { return 2 }
func (d *Swap16Monitor) Endian() Endian { return d.swap.Endian() }
func (d *Swap16Monitor) Writable() bool { return d.swap.Writable() }

func (d *Swap16Monitor) PeekByte(addr int64) (uint8, error) {
	d.mon.Lock()
	defer d.mon.Unlock()
	return d.swap.PeekByte(addr)
}

func (d *Swap16Monitor) PokeByte(addr int64, val uint8) error {
	if !d.swap.Writable() {
		return nil
	}
	d.mon.Lock()
	defer d.mon.Unlock()
	return d.swap.PokeByte(addr, val)
}

func (d *Swap16Monitor) BulkPeekByte(start int64, dst []byte) error {
	return bulkPeekByte(d, start, dst)
}

func (d *Swap16Monitor) BulkPeekUint16(start int64, bigEndian bool, dst []uint16) error {
	return bulkPeekUint16(d, start, bigEndian, dst)
}

func (d *Swap16Monitor) BulkPeekUint32(start int64, bigEndian bool, dst []uint32) error {
	return bulkPeekUint32(d, start, bigEndian, dst)
}
