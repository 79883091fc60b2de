package mappers

import (
	"fmt"

	"nesboard/emu/log"
	"nesboard/hw/hwdefs"
	"nesboard/hw/hwio"
	"nesboard/hw/memdomain"
	"nesboard/hw/snapshot"
	"nesboard/ines"
)

var modMapper = log.NewModule("mapper")

// A Board is the address decoding hardware of a cartridge, as seen from the
// CPU and PPU buses.
type Board interface {
	Name() string

	// CPU $6000-$7FFF.
	ReadWRAM(addr uint16) uint8
	WriteWRAM(addr uint16, val uint8)

	// CPU $8000-$FFFF.
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, val uint8)

	// PPU $0000-$3EFF.
	ReadPPU(addr uint16) uint8
	WritePPU(addr uint16, val uint8)

	// ClockPPU is called once per PPU clock, in order.
	ClockPPU()

	Mirroring() ines.NTMirroring

	// CPUBus and PPUBus return the devices handling the cartridge windows
	// on each bus: CPU $6000-$FFFF and PPU $0000-$3FFF.
	CPUBus() *hwio.Device
	PPUBus() *hwio.Device

	// PRGBank and CHRBank return the effective (masked) bank mapped in the
	// given 8KB PRG window (0-3, from $8000) or 1KB CHR window (0-7).
	PRGBank(window int) int
	CHRBank(window int) int

	// Domains returns the memory domains exposing the cartridge memories
	// and buses to tools.
	Domains() []memdomain.Domain

	snapshot.Syncer
}

type BoardDesc struct {
	Name      string
	Configure func(*base) (Board, error)
}

// All maps board types to board descriptions.
var All = map[string]BoardDesc{
	"KONAMI-VRC-6": VRC6,
}

type Option func(*base)

// WithWRAM makes the board use buf as work RAM, instead of allocating it. buf
// must have the size declared by the cartridge. This allows the work RAM to be
// owned by another component.
func WithWRAM(buf []byte) Option {
	return func(b *base) { b.wram = buf }
}

// Load configures the board required by cart. The board raises interrupts by
// asserting the hwdefs.External source on irq.
func Load(cart *Cart, irq *hwdefs.IRQLine, opts ...Option) (Board, error) {
	desc, ok := All[cart.BoardType]
	if !ok {
		return nil, &ConfigError{Board: cart.BoardType, PCB: cart.PCB, Reason: "unsupported board"}
	}
	b, err := newbase(desc, cart, irq, opts...)
	if err != nil {
		return nil, fmt.Errorf("board initialization failed: %w", err)
	}
	board, err := desc.Configure(b)
	if err != nil {
		return nil, fmt.Errorf("failed to configure board %s: %w", desc.Name, err)
	}

	modMapper.InfoZ("board loaded").
		String("board", desc.Name).
		String("pcb", cart.PCB).
		Int("prg", len(cart.PRG)).
		Int("chr", len(cart.CHR)).
		Int("wram", cart.WRAMSize).
		End()
	return board, nil
}

// ConfigError reports a cartridge that can't be handled by any board.
type ConfigError struct {
	Board  string
	PCB    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.PCB == "" {
		return fmt.Sprintf("board %q: %s", e.Board, e.Reason)
	}
	return fmt.Sprintf("board %q (pcb %q): %s", e.Board, e.PCB, e.Reason)
}
