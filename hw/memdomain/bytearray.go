package memdomain

// ByteArray is a domain owning its backing byte slice.
//
// It provides no synchronization: concurrent access with the emulation must be
// serialized by the caller (for example by only accessing it between frames).
type ByteArray struct {
	info
	data []byte
}

func NewByteArray(name string, endian Endian, data []byte, writable bool, wordSize int) *ByteArray {
	d := &ByteArray{
		info: info{
			name:     name,
			endian:   endian,
			writable: writable,
			wordSize: wordSize,
		},
	}
	d.SetData(data)
	return d
}

// Data returns the backing slice.
func (d *ByteArray) Data() []byte { return d.data }

// SetData replaces the backing slice, and so the domain size.
func (d *ByteArray) SetData(data []byte) {
	d.data = data
	d.size = int64(len(data))
}

func (d *ByteArray) PeekByte(addr int64) (uint8, error) {
	if err := d.checkAddr(addr); err != nil {
		return 0, err
	}
	return d.data[addr], nil
}

func (d *ByteArray) PokeByte(addr int64, val uint8) error {
	if !d.writable {
		return nil
	}
	if err := d.checkAddr(addr); err != nil {
		return err
	}
	d.data[addr] = val
	return nil
}

func (d *ByteArray) BulkPeekByte(start int64, dst []byte) error {
	if err := d.checkRange(start, int64(len(dst))); err != nil {
		return err
	}
	copy(dst, d.data[start:])
	return nil
}

func (d *ByteArray) BulkPeekUint16(start int64, bigEndian bool, dst []uint16) error {
	return bulkPeekUint16(d, start, bigEndian, dst)
}

func (d *ByteArray) BulkPeekUint32(start int64, bigEndian bool, dst []uint32) error {
	return bulkPeekUint32(d, start, bigEndian, dst)
}
