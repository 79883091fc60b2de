package mappers

import (
	"fmt"
	"slices"

	"nesboard/hw/hwdefs"
	"nesboard/hw/hwio"
	"nesboard/hw/memdomain"
	"nesboard/ines"
)

// base holds what all boards have: the cartridge memories, the console
// nametable RAM (CIRAM) the board routes the PPU to, and the bus windows.
type base struct {
	desc BoardDesc
	cart *Cart
	irq  *hwdefs.IRQLine

	wram  []byte
	ciram [0x800]byte

	ntm        ines.NTMirroring
	nametables [4][]byte

	cpuWin hwio.Device // $6000-$FFFF
	ppuWin hwio.Device // $0000-$3FFF
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc BoardDesc, cart *Cart, irq *hwdefs.IRQLine, opts ...Option) (*base, error) {
	if !ispow2(len(cart.PRG)) {
		return nil, fmt.Errorf("only support PRG with power of 2 size, got %d", len(cart.PRG))
	}
	if !ispow2(len(cart.CHR)) {
		return nil, fmt.Errorf("only support CHR with power of 2 size, got %d", len(cart.CHR))
	}

	b := &base{desc: desc, cart: cart, irq: irq}
	for _, opt := range opts {
		opt(b)
	}
	switch {
	case b.wram == nil:
		b.wram = make([]byte, cart.WRAMSize)
	case len(b.wram) != cart.WRAMSize:
		return nil, fmt.Errorf("provided WRAM has size %d, cartridge declares %d", len(b.wram), cart.WRAMSize)
	}
	return b, nil
}

func (b *base) Name() string { return b.desc.Name }

func (b *base) Mirroring() ines.NTMirroring { return b.ntm }

func (b *base) configErr(format string, args ...any) error {
	return &ConfigError{Board: b.cart.BoardType, PCB: b.cart.PCB, Reason: fmt.Sprintf(format, args...)}
}

// assertSize checks that size (in bytes) is one of the given sizes, in KB.
func (b *base) assertSize(what string, size int, kb ...int) error {
	if slices.Contains(kb, size/1024) && size%1024 == 0 {
		return nil
	}
	return b.configErr("%s size %dKB not in %v", what, size/1024, kb)
}

func (b *base) assertPRG(kb ...int) error  { return b.assertSize("PRG", len(b.cart.PRG), kb...) }
func (b *base) assertCHR(kb ...int) error  { return b.assertSize("CHR", len(b.cart.CHR), kb...) }
func (b *base) assertWRAM(kb ...int) error { return b.assertSize("WRAM", len(b.wram), kb...) }

func (b *base) setNametableMirroring(m ines.NTMirroring) {
	A := b.ciram[:0x400]
	B := b.ciram[0x400:0x800]

	switch m {
	case ines.HorzMirroring:
		b.nametables = [4][]byte{A, A, B, B}
	case ines.VertMirroring:
		b.nametables = [4][]byte{A, B, A, B}
	case ines.OnlyAScreen:
		b.nametables = [4][]byte{A, A, A, A}
	case ines.OnlyBScreen:
		b.nametables = [4][]byte{B, B, B, B}
	default:
		panic(fmt.Sprintf("unsupported mirroring %d", m))
	}

	if m != b.ntm {
		modMapper.DebugZ("nametable mirroring").Stringer("mode", m).End()
	}
	b.ntm = m
}

// readNT and writeNT access nametables, addr in $2000-$3EFF.
func (b *base) readNT(addr uint16) uint8 {
	return b.nametables[(addr>>10)&3][addr&0x3FF]
}

func (b *base) writeNT(addr uint16, val uint8) {
	b.nametables[(addr>>10)&3][addr&0x3FF] = val
}

// ReadWRAM reads from $6000-$7FFF. Reads outside of the work RAM return 0.
func (b *base) ReadWRAM(addr uint16) uint8 {
	if len(b.wram) == 0 {
		return 0
	}
	return b.wram[int(addr-0x6000)%len(b.wram)]
}

func (b *base) WriteWRAM(addr uint16, val uint8) {
	if len(b.wram) == 0 {
		return
	}
	b.wram[int(addr-0x6000)%len(b.wram)] = val
}

// initBuses sets up the CPU and PPU windows of the board. Reads on both buses
// have no side effect on the boards we support, so peeks are reads.
func (b *base) initBuses(board Board) {
	b.cpuWin = hwio.Device{
		Name: b.desc.Name + " CPU",
		Base: 0x6000,
		Size: 0xA000,
		ReadCb: func(addr uint16) uint8 {
			if addr < 0x8000 {
				return board.ReadWRAM(addr)
			}
			return board.ReadPRG(addr)
		},
		WriteCb: func(addr uint16, val uint8) {
			if addr < 0x8000 {
				board.WriteWRAM(addr, val)
				return
			}
			board.WritePRG(addr, val)
		},
	}
	b.cpuWin.PeekCb = b.cpuWin.ReadCb

	b.ppuWin = hwio.Device{
		Name:    b.desc.Name + " PPU",
		Base:    0x0000,
		Size:    0x4000,
		ReadCb:  board.ReadPPU,
		PeekCb:  board.ReadPPU,
		WriteCb: board.WritePPU,
	}
}

func (b *base) CPUBus() *hwio.Device { return &b.cpuWin }

func (b *base) PPUBus() *hwio.Device { return &b.ppuWin }

// Domains returns the standard cartridge domains.
//
// The system bus only exposes what the cartridge decodes ($6000-$FFFF), other
// addresses read as 0. Pokes on the system bus only reach the work RAM: a poke
// in the PRG area must not be mistaken for a register write.
func (b *base) Domains() []memdomain.Domain {
	doms := []memdomain.Domain{
		memdomain.NewByteArray("PRG ROM", memdomain.LittleEndian, b.cart.PRG, false, 1),
		memdomain.NewByteArray("CHR VROM", memdomain.LittleEndian, b.cart.CHR, false, 1),
		memdomain.NewByteArray("CIRAM", memdomain.LittleEndian, b.ciram[:], true, 1),
	}
	if len(b.wram) != 0 {
		doms = append(doms, memdomain.NewByteArray("WRAM", memdomain.LittleEndian, b.wram, true, 1))
	}

	sysbus := memdomain.NewDelegate(memdomain.SystemBusName, 0x10000, memdomain.LittleEndian,
		func(addr int64) uint8 {
			if !b.cpuWin.Contains(uint16(addr)) {
				return 0
			}
			return b.cpuWin.Peek8(uint16(addr))
		},
		func(addr int64, val uint8) {
			if addr >= 0x6000 && addr < 0x8000 {
				b.WriteWRAM(uint16(addr), val)
			}
		}, 1)

	ppubus := memdomain.NewDelegate("PPU Bus", 0x4000, memdomain.LittleEndian,
		func(addr int64) uint8 { return b.ppuWin.Peek8(uint16(addr)) },
		func(addr int64, val uint8) {
			if addr >= 0x2000 && addr < 0x3F00 {
				b.writeNT(uint16(addr), val)
			}
		}, 1)

	return append(doms, sysbus, ppubus)
}
