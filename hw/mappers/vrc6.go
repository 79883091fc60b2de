package mappers

import (
	"nesboard/hw/hwdefs"
	"nesboard/hw/hwio"
	"nesboard/hw/snapshot"
	"nesboard/ines"
)

var VRC6 = BoardDesc{
	Name:      "VRC6",
	Configure: configureVRC6,
}

// Konami VRC6 PCBs. Both wire the same chip, but 351949A swaps address lines
// A0 and A1 on the register decoder.
const (
	pcbVRC6a = "351951"
	pcbVRC6b = "351949A"
)

// prescaler reload value, in PPU clocks.
const vrc6PrescalerReload = hwdefs.DotsPerScanline

type vrc6 struct {
	*base

	swapA0A1      bool
	prgBankMask8k int
	chrBankMask1k int

	prgBank16k uint8
	prgBank8k  uint8
	prgBanks8k [4]uint8
	chrBanks1k [8]uint8

	irqMode      bool // cycle mode when set
	irqEnabled   bool
	irqPending   bool
	irqAutoEn    bool
	irqReload    uint8
	irqCounter   uint8
	irqPrescaler int
}

func configureVRC6(b *base) (Board, error) {
	m := &vrc6{base: b, irqPrescaler: vrc6PrescalerReload}

	switch b.cart.PCB {
	case pcbVRC6a:
	case pcbVRC6b:
		m.swapA0A1 = true
	default:
		return nil, b.configErr("unknown PCB")
	}

	if err := b.assertPRG(256); err != nil {
		return nil, err
	}
	if err := b.assertCHR(128, 256); err != nil {
		return nil, err
	}
	if err := b.assertWRAM(0, 8); err != nil {
		return nil, err
	}

	m.prgBankMask8k = len(b.cart.PRG)/0x2000 - 1
	m.chrBankMask1k = len(b.cart.CHR)/0x400 - 1

	m.syncPRG()
	m.setNametableMirroring(ines.VertMirroring)
	m.initBuses(m)
	return m, nil
}

func (m *vrc6) syncPRG() {
	m.prgBanks8k[0] = m.prgBank16k * 2
	m.prgBanks8k[1] = m.prgBank16k*2 + 1
	m.prgBanks8k[2] = m.prgBank8k
	m.prgBanks8k[3] = 0xFF
}

func (m *vrc6) PRGBank(window int) int {
	return int(m.prgBanks8k[window&3]) & m.prgBankMask8k
}

func (m *vrc6) CHRBank(window int) int {
	return int(m.chrBanks1k[window&7]) & m.chrBankMask1k
}

func (m *vrc6) ReadPRG(addr uint16) uint8 {
	off := int(addr & 0x7FFF)
	bank := m.PRGBank(off >> 13)
	return m.cart.PRG[bank<<13|off&0x1FFF]
}

func (m *vrc6) WritePRG(addr uint16, val uint8) {
	reg := addr & 0x7FFF
	if m.swapA0A1 {
		reg = hwio.SwapBits01(reg)
	}

	switch reg {
	case 0x0000, 0x0001, 0x0002, 0x0003:
		m.prgBank16k = val
		m.syncPRG()
		modMapper.DebugZ("PRG 16k bank").Hex16("addr", addr).Uint8("bank", val).End()

	case 0x4000, 0x4001, 0x4002, 0x4003:
		m.prgBank8k = val
		m.syncPRG()
		modMapper.DebugZ("PRG 8k bank").Hex16("addr", addr).Uint8("bank", val).End()

	case 0x1000, 0x1001, 0x1002,
		0x2000, 0x2001, 0x2002,
		0x3000, 0x3001, 0x3002:
		// Expansion audio: pulse 1, pulse 2 and sawtooth.
		modMapper.DebugZ("ignored audio register write").Hex16("addr", addr).Hex8("val", val).End()

	case 0x3003:
		switch (val >> 2) & 3 {
		case 0:
			m.setNametableMirroring(ines.VertMirroring)
		case 1:
			m.setNametableMirroring(ines.HorzMirroring)
		case 2:
			m.setNametableMirroring(ines.OnlyAScreen)
		case 3:
			m.setNametableMirroring(ines.OnlyBScreen)
		}

	case 0x5000, 0x5001, 0x5002, 0x5003:
		m.chrBanks1k[reg-0x5000] = val
	case 0x6000, 0x6001, 0x6002, 0x6003:
		m.chrBanks1k[4+reg-0x6000] = val

	case 0x7000:
		m.irqReload = val
	case 0x7001:
		m.writeIRQControl(val)
	case 0x7002:
		m.ackIRQ()
	}
}

func (m *vrc6) ReadPPU(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		bank := m.CHRBank(int(addr >> 10))
		return m.cart.CHR[bank<<10|int(addr&0x3FF)]
	case addr < 0x3F00:
		return m.readNT(addr)
	}
	// Palette RAM belongs to the PPU.
	return 0
}

func (m *vrc6) WritePPU(addr uint16, val uint8) {
	addr &= 0x3FFF
	if addr >= 0x2000 && addr < 0x3F00 {
		m.writeNT(addr, val)
	}
}

func (m *vrc6) writeIRQControl(val uint8) {
	m.irqMode = hwio.GetBit8(val, 2)
	m.irqAutoEn = hwio.GetBit8(val, 0)

	if hwio.GetBit8(val, 1) {
		m.irqEnabled = true
		m.irqCounter = m.irqReload
		m.irqPrescaler = vrc6PrescalerReload
	} else {
		m.irqEnabled = false
	}
	m.irqPending = false
	m.syncIRQ()

	modMapper.DebugZ("IRQ control").
		Bool("enabled", m.irqEnabled).
		Bool("autoen", m.irqAutoEn).
		Bool("cycle", m.irqMode).
		Uint8("reload", m.irqReload).
		End()
}

func (m *vrc6) ackIRQ() {
	m.irqPending = false
	m.irqEnabled = m.irqAutoEn
	m.syncIRQ()
}

func (m *vrc6) syncIRQ() {
	m.irq.Set(hwdefs.External, m.irqPending && m.irqEnabled)
}

func (m *vrc6) clockIRQ() {
	if m.irqCounter == 0xFF {
		m.irqPending = true
		m.irqCounter = m.irqReload
		m.syncIRQ()
		return
	}
	m.irqCounter++
}

// ClockPPU clocks the IRQ prescaler. It panics with an
// *hwdefs.UnsupportedModeError if the IRQ is enabled in cycle mode.
func (m *vrc6) ClockPPU() {
	if !m.irqEnabled {
		return
	}
	if m.irqMode {
		panic(&hwdefs.UnsupportedModeError{What: "VRC6 IRQ", Mode: "cycle"})
	}

	m.irqPrescaler--
	if m.irqPrescaler == 0 {
		m.irqPrescaler += vrc6PrescalerReload
		m.clockIRQ()
	}
}

// IRQState is a snapshot of a scanline IRQ counter.
type IRQState struct {
	CycleMode    bool
	Enabled      bool
	Pending      bool
	AutoReenable bool
	Reload       uint8
	Counter      uint8
	Prescaler    int
}

// IRQCounter is implemented by boards having an IRQ counter.
type IRQCounter interface {
	IRQState() IRQState

	// SetupIRQ writes the reload and control registers, as the CPU would.
	SetupIRQ(reload, control uint8)
}

func (m *vrc6) SetupIRQ(reload, control uint8) {
	m.irqReload = reload
	m.writeIRQControl(control)
}

func (m *vrc6) IRQState() IRQState {
	return IRQState{
		CycleMode:    m.irqMode,
		Enabled:      m.irqEnabled,
		Pending:      m.irqPending,
		AutoReenable: m.irqAutoEn,
		Reload:       m.irqReload,
		Counter:      m.irqCounter,
		Prescaler:    m.irqPrescaler,
	}
}

// State returns a copy of the board state.
func (m *vrc6) State() snapshot.VRC6 {
	return snapshot.VRC6{
		PRGBank16k:   m.prgBank16k,
		PRGBank8k:    m.prgBank8k,
		CHRBanks1k:   m.chrBanks1k,
		PRGBanks8k:   m.prgBanks8k,
		Mirroring:    uint8(m.ntm),
		IRQMode:      m.irqMode,
		IRQEnabled:   m.irqEnabled,
		IRQPending:   m.irqPending,
		IRQAutoEn:    m.irqAutoEn,
		IRQReload:    m.irqReload,
		IRQCounter:   m.irqCounter,
		IRQPrescaler: m.irqPrescaler,
		CIRAM:        m.ciram,
		WRAM:         append(make([]uint8, 0, len(m.wram)), m.wram...),
	}
}

// SetState restores the board state from st. The derived PRG banks are
// recomputed and the IRQ line is synced.
func (m *vrc6) SetState(st *snapshot.VRC6) {
	m.prgBank16k = st.PRGBank16k
	m.prgBank8k = st.PRGBank8k
	m.chrBanks1k = st.CHRBanks1k
	m.irqMode = st.IRQMode
	m.irqEnabled = st.IRQEnabled
	m.irqPending = st.IRQPending
	m.irqAutoEn = st.IRQAutoEn
	m.irqReload = st.IRQReload
	m.irqCounter = st.IRQCounter
	m.irqPrescaler = st.IRQPrescaler
	m.ciram = st.CIRAM
	copy(m.wram, st.WRAM)

	m.syncPRG()
	m.setNametableMirroring(ines.NTMirroring(st.Mirroring))
	m.syncIRQ()
}

// SyncState saves or restores the board. When restoring, the board is left
// untouched unless the whole state could be decoded.
func (m *vrc6) SyncState(s *snapshot.Serializer) {
	st := m.State()
	st.SyncState(s)
	if s.IsReader() && s.Err() == nil {
		m.SetState(&st)
	}
}
