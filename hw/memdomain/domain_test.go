package memdomain

import (
	"errors"
	"math"
	"sync"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
)

func testData(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = uint8(i*7 + 3)
	}
	return buf
}

func ptrOf(buf []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(buf))
}

// allVariants returns one writable domain of each kind, all backed by buf
// (directly or not).
func allVariants(buf []byte) map[string]Domain {
	var mu sync.Mutex
	return map[string]Domain{
		"bytearray": NewByteArray("bytearray", LittleEndian, buf, true, 1),
		"delegate": NewDelegate("delegate", int64(len(buf)), LittleEndian,
			func(addr int64) uint8 { return buf[addr] },
			func(addr int64, val uint8) { buf[addr] = val },
			1),
		"pointer":       NewPointer("pointer", LittleEndian, ptrOf(buf), int64(len(buf)), true, 1),
		"pointer-mon":   NewPointerMonitor("pointer-mon", LittleEndian, ptrOf(buf), int64(len(buf)), true, 1, &mu),
		"swap16":        NewSwap16("swap16", BigEndian, ptrOf(buf), int64(len(buf)), true),
		"swap16-mon":    NewSwap16Monitor("swap16-mon", BigEndian, ptrOf(buf), int64(len(buf)), true, &mu),
		"delegate-bulk": newBulkDelegate(buf),
	}
}

func newBulkDelegate(buf []byte) *Delegate {
	return NewDelegate("delegate-bulk", int64(len(buf)), LittleEndian,
		func(addr int64) uint8 { return buf[addr] },
		func(addr int64, val uint8) { buf[addr] = val },
		1,
		WithBulkPeekByte(func(start int64, dst []byte) { copy(dst, buf[start:]) }),
	)
}

func TestByteArrayPeekPoke(t *testing.T) {
	for _, writable := range []bool{true, false} {
		data := testData(0x100)
		orig := append([]byte(nil), data...)
		d := NewByteArray("ram", LittleEndian, data, writable, 1)

		for addr := range int64(len(data)) {
			got, err := d.PeekByte(addr)
			if err != nil {
				t.Fatalf("PeekByte(%X): %v", addr, err)
			}
			if got != orig[addr] {
				t.Fatalf("PeekByte(%X) = %02X, want %02X", addr, got, orig[addr])
			}

			if err := d.PokeByte(addr, ^got); err != nil {
				t.Fatalf("PokeByte(%X): %v", addr, err)
			}
			got, _ = d.PeekByte(addr)
			want := orig[addr]
			if writable {
				want = ^orig[addr]
			}
			if got != want {
				t.Fatalf("writable=%t: PeekByte(%X) after poke = %02X, want %02X", writable, addr, got, want)
			}
		}

		if !writable {
			if diff := cmp.Diff(orig, data); diff != "" {
				t.Errorf("read-only domain data modified (-want +got):\n%s", diff)
			}
		}
	}
}

func TestByteArraySetData(t *testing.T) {
	d := NewByteArray("ram", LittleEndian, make([]byte, 0x10), true, 1)
	d.SetData(make([]byte, 0x40))
	if d.Size() != 0x40 {
		t.Fatalf("Size() = %X, want 40", d.Size())
	}
	if _, err := d.PeekByte(0x3F); err != nil {
		t.Errorf("PeekByte(3F) after SetData: %v", err)
	}
}

func TestOutOfRange(t *testing.T) {
	addrs := []int64{-1, -2, 0x100, 0x101, math.MaxInt64, math.MinInt64}

	for name, d := range allVariants(testData(0x100)) {
		t.Run(name, func(t *testing.T) {
			for _, addr := range addrs {
				_, err := d.PeekByte(addr)
				var rerr *RangeError
				if !errors.As(err, &rerr) {
					t.Errorf("PeekByte(%d) error = %v, want *RangeError", addr, err)
				}
				if err := d.PokeByte(addr, 0x12); !errors.As(err, &rerr) {
					t.Errorf("PokeByte(%d) error = %v, want *RangeError", addr, err)
				}
			}
		})
	}
}

func TestPokeReadOnlyIsNoop(t *testing.T) {
	buf := testData(0x10)
	var mu sync.Mutex

	domains := []Domain{
		NewByteArray("ba", LittleEndian, buf, false, 1),
		NewDelegate("dlg", int64(len(buf)), LittleEndian, func(addr int64) uint8 { return buf[addr] }, nil, 1),
		NewPointer("ptr", LittleEndian, ptrOf(buf), int64(len(buf)), false, 1),
		NewPointerMonitor("ptrmon", LittleEndian, ptrOf(buf), int64(len(buf)), false, 1, &mu),
		NewSwap16("swap", LittleEndian, ptrOf(buf), int64(len(buf)), false),
		NewSwap16Monitor("swapmon", LittleEndian, ptrOf(buf), int64(len(buf)), false, &mu),
	}

	want := append([]byte(nil), buf...)
	for _, d := range domains {
		if d.Writable() {
			t.Errorf("%s: Writable() = true", d.Name())
		}
		// Even out of range, a poke to a read-only domain is a no-op.
		for _, addr := range []int64{0, 5, 0x10, -1} {
			if err := d.PokeByte(addr, 0xEE); err != nil {
				t.Errorf("%s: PokeByte(%d) = %v, want nil", d.Name(), addr, err)
			}
		}
	}
	if diff := cmp.Diff(want, buf); diff != "" {
		t.Errorf("read-only domains modified memory (-want +got):\n%s", diff)
	}
}

func TestSwap16(t *testing.T) {
	buf := []byte{0x11, 0x22, 0x33, 0x44}
	d := NewSwap16("vram", BigEndian, ptrOf(buf), int64(len(buf)), true)

	if d.WordSize() != 2 {
		t.Errorf("WordSize() = %d, want 2", d.WordSize())
	}

	want := []byte{0x22, 0x11, 0x44, 0x33}
	got := make([]byte, 4)
	if err := d.BulkPeekByte(0, got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BulkPeekByte mismatch (-want +got):\n%s", diff)
	}

	for addr := range int64(4) {
		v := uint8(0xA0 + addr)
		if err := d.PokeByte(addr, v); err != nil {
			t.Fatal(err)
		}
		if got, _ := d.PeekByte(addr); got != v {
			t.Errorf("PeekByte(%d) = %02X, want %02X", addr, got, v)
		}
		if buf[addr^1] != v {
			t.Errorf("raw[%d] = %02X, want %02X", addr^1, buf[addr^1], v)
		}
	}
}

func TestSwap16OddSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewSwap16 with odd size should panic")
		}
	}()
	buf := make([]byte, 3)
	NewSwap16("odd", LittleEndian, ptrOf(buf), 3, true)
}

func TestBulkPeekByteEquivalence(t *testing.T) {
	for name, d := range allVariants(testData(0x80)) {
		t.Run(name, func(t *testing.T) {
			want := make([]byte, 0x30)
			for i := range want {
				want[i], _ = d.PeekByte(0x40 + int64(i))
			}
			got := make([]byte, 0x30)
			if err := d.BulkPeekByte(0x40, got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("BulkPeekByte mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBulkPeekValidatesWholeRange(t *testing.T) {
	for name, d := range allVariants(testData(0x20)) {
		t.Run(name, func(t *testing.T) {
			var rerr *RangeError

			b := []byte{0xDE, 0xAD, 0xBE, 0xEF}
			if err := d.BulkPeekByte(0x1E, b); !errors.As(err, &rerr) {
				t.Fatalf("BulkPeekByte error = %v, want *RangeError", err)
			}
			if diff := cmp.Diff([]byte{0xDE, 0xAD, 0xBE, 0xEF}, b); diff != "" {
				t.Errorf("partial copy on failure (-want +got):\n%s", diff)
			}

			w := []uint16{0xCAFE, 0xCAFE}
			if err := d.BulkPeekUint16(0x1E, false, w); !errors.As(err, &rerr) {
				t.Fatalf("BulkPeekUint16 error = %v, want *RangeError", err)
			}
			if diff := cmp.Diff([]uint16{0xCAFE, 0xCAFE}, w); diff != "" {
				t.Errorf("partial copy on failure (-want +got):\n%s", diff)
			}

			dw := []uint32{0xCAFEBABE, 0xCAFEBABE}
			if err := d.BulkPeekUint32(0x1C, true, dw); !errors.As(err, &rerr) {
				t.Fatalf("BulkPeekUint32 error = %v, want *RangeError", err)
			}
			if diff := cmp.Diff([]uint32{0xCAFEBABE, 0xCAFEBABE}, dw); diff != "" {
				t.Errorf("partial copy on failure (-want +got):\n%s", diff)
			}

			if err := d.BulkPeekByte(-1, b[:1]); !errors.As(err, &rerr) {
				t.Errorf("BulkPeekByte(-1) error = %v, want *RangeError", err)
			}
			// Empty range at the very end is valid.
			if err := d.BulkPeekByte(0x20, nil); err != nil {
				t.Errorf("BulkPeekByte(size, nil) = %v, want nil", err)
			}
		})
	}
}

func TestBulkPeekWords(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	d := NewByteArray("rom", BigEndian, buf, false, 2)

	w := make([]uint16, 4)
	if err := d.BulkPeekUint16(0, false, w); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint16{0x0201, 0x0403, 0x0605, 0x0807}, w); diff != "" {
		t.Errorf("little endian uint16 mismatch (-want +got):\n%s", diff)
	}
	if err := d.BulkPeekUint16(1, true, w[:3]); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint16{0x0203, 0x0405, 0x0607}, w[:3]); diff != "" {
		t.Errorf("big endian uint16 mismatch (-want +got):\n%s", diff)
	}

	dw := make([]uint32, 2)
	if err := d.BulkPeekUint32(0, true, dw); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint32{0x01020304, 0x05060708}, dw); diff != "" {
		t.Errorf("big endian uint32 mismatch (-want +got):\n%s", diff)
	}
	if err := d.BulkPeekUint32(0, false, dw); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint32{0x04030201, 0x08070605}, dw); diff != "" {
		t.Errorf("little endian uint32 mismatch (-want +got):\n%s", diff)
	}
}

func TestWordHelpers(t *testing.T) {
	buf := make([]byte, 8)
	d := NewPointer("wram", LittleEndian, ptrOf(buf), int64(len(buf)), true, 4)

	if err := PokeUint32(d, 0, 0x11223344, true); err != nil {
		t.Fatal(err)
	}
	if err := PokeUint16(d, 4, 0xAABB, false); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x11, 0x22, 0x33, 0x44, 0xBB, 0xAA, 0, 0}, buf); diff != "" {
		t.Errorf("memory mismatch (-want +got):\n%s", diff)
	}

	if v, err := PeekUint32(d, 0, false); err != nil || v != 0x44332211 {
		t.Errorf("PeekUint32 = %08X, %v, want 44332211", v, err)
	}
	if v, err := PeekUint16(d, 4, true); err != nil || v != 0xBBAA {
		t.Errorf("PeekUint16 = %04X, %v, want BBAA", v, err)
	}

	var rerr *RangeError
	if err := PokeUint32(d, 6, 0xFFFFFFFF, true); !errors.As(err, &rerr) {
		t.Errorf("PokeUint32 at end error = %v, want *RangeError", err)
	}
	if buf[6] != 0 || buf[7] != 0 {
		t.Errorf("failed PokeUint32 wrote partial data: % X", buf[6:])
	}
}

func TestDelegate(t *testing.T) {
	buf := testData(0x10)
	d := NewDelegate("bus", 0x10, LittleEndian, func(addr int64) uint8 { return buf[addr] }, nil, 1)
	if d.Writable() {
		t.Fatalf("delegate without poke is writable")
	}

	d.SetPoke(func(addr int64, val uint8) { buf[addr] = val })
	if !d.Writable() {
		t.Fatalf("delegate with poke is not writable")
	}
	if err := d.PokeByte(3, 0x99); err != nil {
		t.Fatal(err)
	}
	if buf[3] != 0x99 {
		t.Errorf("buf[3] = %02X, want 99", buf[3])
	}

	var calls int
	d = NewDelegate("bus", 0x10, LittleEndian, func(addr int64) uint8 { return buf[addr] }, nil, 1,
		WithBulkPeekUint16(func(start int64, bigEndian bool, dst []uint16) {
			calls++
			for i := range dst {
				dst[i] = 0x1234
			}
		}),
	)
	w := make([]uint16, 2)
	if err := d.BulkPeekUint16(0, true, w); err != nil {
		t.Fatal(err)
	}
	if calls != 1 || w[0] != 0x1234 {
		t.Errorf("bulk delegate not used: calls=%d w=%04X", calls, w)
	}
	// out of range bulk calls never reach the delegate.
	if err := d.BulkPeekUint16(0xF, true, w); err == nil {
		t.Errorf("BulkPeekUint16 out of range: want error")
	}
	if calls != 1 {
		t.Errorf("out of range bulk call reached the delegate")
	}
}

func TestMonitorReleasedOnError(t *testing.T) {
	buf := testData(0x10)
	var mu sync.Mutex
	domains := []Domain{
		NewPointerMonitor("ptrmon", LittleEndian, ptrOf(buf), 0x10, true, 1, &mu),
		NewSwap16Monitor("swapmon", LittleEndian, ptrOf(buf), 0x10, true, &mu),
	}

	for _, d := range domains {
		if _, err := d.PeekByte(0x10); err == nil {
			t.Fatalf("%s: PeekByte out of range: want error", d.Name())
		}
		if err := d.PokeByte(-1, 0); err == nil {
			t.Fatalf("%s: PokeByte out of range: want error", d.Name())
		}
		if err := d.BulkPeekByte(0x08, make([]byte, 0x10)); err == nil {
			t.Fatalf("%s: BulkPeekByte out of range: want error", d.Name())
		}
		if !mu.TryLock() {
			t.Fatalf("%s: monitor still held after failed access", d.Name())
		}
		mu.Unlock()
	}
}

func TestPointerMonitorRemap(t *testing.T) {
	var mu sync.Mutex
	small, big := testData(0x10), testData(0x40)
	d := NewPointerMonitor("wram", LittleEndian, ptrOf(small), int64(len(small)), true, 1, &mu)

	if _, err := d.PeekByte(0x20); err == nil {
		t.Fatalf("PeekByte(20) before remap: want error")
	}
	d.Remap(ptrOf(big), int64(len(big)))
	if d.Size() != 0x40 {
		t.Errorf("Size() = %X, want 40", d.Size())
	}
	if v, err := d.PeekByte(0x20); err != nil || v != big[0x20] {
		t.Errorf("PeekByte(20) = %02X, %v, want %02X", v, err, big[0x20])
	}
}
