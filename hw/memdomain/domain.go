// Package memdomain provides a uniform view over the byte-addressable memories
// of an emulated system, so that tools (debuggers, memory search, cheats,
// scripts) can peek and poke live memory without knowing how it is stored.
package memdomain

import "nesboard/emu/log"

var modDomain = log.NewModule("memdomain")

//go:generate go tool stringer -type=Endian -linecomment

type Endian uint8

const (
	LittleEndian  Endian = iota // little
	BigEndian                   // big
	UnknownEndian               // unknown
)

// A Domain is a fixed-size byte-addressable memory area.
//
// Every address in [0, Size) can be peeked. Pokes to a non writable domain are
// silently ignored. Accesses outside of [0, Size) always fail with a
// *RangeError, they are never clamped nor wrapped.
type Domain interface {
	Name() string
	Size() int64
	WordSize() int
	Endian() Endian
	Writable() bool

	PeekByte(addr int64) (uint8, error)
	PokeByte(addr int64, val uint8) error

	// Bulk peeks fill dst with consecutive values read from start. The
	// whole range is validated before anything is written into dst. Word
	// values are decoded according to bigEndian, whatever the domain
	// endianness.
	BulkPeekByte(start int64, dst []byte) error
	BulkPeekUint16(start int64, bigEndian bool, dst []uint16) error
	BulkPeekUint32(start int64, bigEndian bool, dst []uint32) error
}

// info holds the properties shared by all domain implementations.
type info struct {
	name     string
	size     int64
	wordSize int
	endian   Endian
	writable bool
}

func (i *info) Name() string   { return i.name }
func (i *info) Size() int64    { return i.size }
func (i *info) WordSize() int  { return i.wordSize }
func (i *info) Endian() Endian { return i.endian }
func (i *info) Writable() bool { return i.writable }

func (i *info) checkAddr(addr int64) error {
	if uint64(addr) < uint64(i.size) {
		return nil
	}
	return &RangeError{Domain: i.name, Addr: addr, Count: 1, Size: i.size}
}

// checkRange validates the count bytes starting at start.
func (i *info) checkRange(start, count int64) error {
	return checkRange(i.name, i.size, start, count)
}

func checkRange(name string, size, start, count int64) error {
	if uint64(start) <= uint64(size) && uint64(count) <= uint64(size)-uint64(start) {
		return nil
	}
	return &RangeError{Domain: name, Addr: start, Count: count, Size: size}
}

// The following functions provide the default bulk peek behavior, that is a
// loop of PeekByte, for domains that can't do better.

func bulkPeekByte(d Domain, start int64, dst []byte) error {
	if err := checkRange(d.Name(), d.Size(), start, int64(len(dst))); err != nil {
		return err
	}
	return peekLoop(d, start, dst)
}

func peekLoop(d Domain, start int64, dst []byte) error {
	for i := range dst {
		v, err := d.PeekByte(start + int64(i))
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func bulkPeekUint16(d Domain, start int64, bigEndian bool, dst []uint16) error {
	if err := checkRange(d.Name(), d.Size(), start, int64(len(dst))*2); err != nil {
		return err
	}
	var b [2]byte
	for i := range dst {
		if err := peekLoop(d, start+int64(i)*2, b[:]); err != nil {
			return err
		}
		dst[i] = decode16(b, bigEndian)
	}
	return nil
}

func bulkPeekUint32(d Domain, start int64, bigEndian bool, dst []uint32) error {
	if err := checkRange(d.Name(), d.Size(), start, int64(len(dst))*4); err != nil {
		return err
	}
	var b [4]byte
	for i := range dst {
		if err := peekLoop(d, start+int64(i)*4, b[:]); err != nil {
			return err
		}
		dst[i] = decode32(b, bigEndian)
	}
	return nil
}

func decode16(b [2]byte, bigEndian bool) uint16 {
	if bigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

func decode32(b [4]byte, bigEndian bool) uint32 {
	if bigEndian {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

// PeekUint16 reads the 16-bit word at addr.
func PeekUint16(d Domain, addr int64, bigEndian bool) (uint16, error) {
	var v [1]uint16
	if err := d.BulkPeekUint16(addr, bigEndian, v[:]); err != nil {
		return 0, err
	}
	return v[0], nil
}

// PeekUint32 reads the 32-bit word at addr.
func PeekUint32(d Domain, addr int64, bigEndian bool) (uint32, error) {
	var v [1]uint32
	if err := d.BulkPeekUint32(addr, bigEndian, v[:]); err != nil {
		return 0, err
	}
	return v[0], nil
}

// PokeUint16 writes the 16-bit word val at addr. Both addresses are validated
// before the first byte is written.
func PokeUint16(d Domain, addr int64, val uint16, bigEndian bool) error {
	b := [2]byte{uint8(val), uint8(val >> 8)}
	if bigEndian {
		b[0], b[1] = b[1], b[0]
	}
	return pokeBytes(d, addr, b[:])
}

// PokeUint32 writes the 32-bit word val at addr. All addresses are validated
// before the first byte is written.
func PokeUint32(d Domain, addr int64, val uint32, bigEndian bool) error {
	b := [4]byte{uint8(val), uint8(val >> 8), uint8(val >> 16), uint8(val >> 24)}
	if bigEndian {
		b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	}
	return pokeBytes(d, addr, b[:])
}

func pokeBytes(d Domain, addr int64, b []byte) error {
	if err := checkRange(d.Name(), d.Size(), addr, int64(len(b))); err != nil {
		return err
	}
	for i, v := range b {
		if err := d.PokeByte(addr+int64(i), v); err != nil {
			return err
		}
	}
	return nil
}
