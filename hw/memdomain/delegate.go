package memdomain

type (
	PeekFunc func(addr int64) uint8
	PokeFunc func(addr int64, val uint8)

	BulkPeekByteFunc   func(start int64, dst []byte)
	BulkPeekUint16Func func(start int64, bigEndian bool, dst []uint16)
	BulkPeekUint32Func func(start int64, bigEndian bool, dst []uint32)
)

// Delegate is a domain which doesn't own any data: accesses are forwarded to
// user supplied functions. Addresses are validated before the functions are
// called, so they only ever see addresses within [0, Size).
//
// A Delegate is writable if and only if it has a poke function.
type Delegate struct {
	info

	peek PeekFunc
	poke PokeFunc

	bulkByte   BulkPeekByteFunc
	bulkUint16 BulkPeekUint16Func
	bulkUint32 BulkPeekUint32Func
}

type DelegateOption func(*Delegate)

// WithBulkPeekByte sets a function replacing the default loop of byte peeks.
func WithBulkPeekByte(f BulkPeekByteFunc) DelegateOption {
	return func(d *Delegate) { d.bulkByte = f }
}

// WithBulkPeekUint16 sets a function replacing the default loop of byte peeks.
func WithBulkPeekUint16(f BulkPeekUint16Func) DelegateOption {
	return func(d *Delegate) { d.bulkUint16 = f }
}

// WithBulkPeekUint32 sets a function replacing the default loop of byte peeks.
func WithBulkPeekUint32(f BulkPeekUint32Func) DelegateOption {
	return func(d *Delegate) { d.bulkUint32 = f }
}

func NewDelegate(name string, size int64, endian Endian, peek PeekFunc, poke PokeFunc, wordSize int, opts ...DelegateOption) *Delegate {
	d := &Delegate{
		info: info{
			name:     name,
			size:     size,
			endian:   endian,
			wordSize: wordSize,
		},
		peek: peek,
	}
	d.SetPoke(poke)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetPoke replaces the poke function. Setting it to nil makes the domain read
// only.
func (d *Delegate) SetPoke(poke PokeFunc) {
	d.poke = poke
	d.writable = poke != nil
}

func (d *Delegate) PeekByte(addr int64) (uint8, error) {
	if err := d.checkAddr(addr); err != nil {
		return 0, err
	}
	return d.peek(addr), nil
}

func (d *Delegate) PokeByte(addr int64, val uint8) error {
	if d.poke == nil {
		return nil
	}
	if err := d.checkAddr(addr); err != nil {
		return err
	}
	d.poke(addr, val)
	return nil
}

func (d *Delegate) BulkPeekByte(start int64, dst []byte) error {
	if d.bulkByte == nil {
		return bulkPeekByte(d, start, dst)
	}
	if err := d.checkRange(start, int64(len(dst))); err != nil {
		return err
	}
	d.bulkByte(start, dst)
	return nil
}

func (d *Delegate) BulkPeekUint16(start int64, bigEndian bool, dst []uint16) error {
	if d.bulkUint16 == nil {
		return bulkPeekUint16(d, start, bigEndian, dst)
	}
	if err := d.checkRange(start, int64(len(dst))*2); err != nil {
		return err
	}
	d.bulkUint16(start, bigEndian, dst)
	return nil
}

func (d *Delegate) BulkPeekUint32(start int64, bigEndian bool, dst []uint32) error {
	if d.bulkUint32 == nil {
		return bulkPeekUint32(d, start, bigEndian, dst)
	}
	if err := d.checkRange(start, int64(len(dst))*4); err != nil {
		return err
	}
	d.bulkUint32(start, bigEndian, dst)
	return nil
}
