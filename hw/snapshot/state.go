package snapshot

import (
	"github.com/go-faster/errors"

	"nesboard/hw/hwdefs"
)

// VRC6 is the save-state of a Konami VRC6 board.
type VRC6 struct {
	PRGBank16k uint8
	PRGBank8k  uint8
	CHRBanks1k [8]uint8

	// Derived from PRGBank16k and PRGBank8k, not serialized.
	PRGBanks8k [4]uint8

	Mirroring uint8 // ines.NTMirroring, one of the 4 CIRAM modes

	IRQMode      bool
	IRQEnabled   bool
	IRQPending   bool
	IRQAutoEn    bool
	IRQReload    uint8
	IRQCounter   uint8
	IRQPrescaler int

	CIRAM [0x800]uint8
	WRAM  []uint8
}

// SyncState implements Syncer. The derived PRGBanks8k are not synced, the
// board recomputes them after loading.
func (st *VRC6) SyncState(s *Serializer) {
	s.Uint8("prg_bank_16k", &st.PRGBank16k)
	s.Uint8("prg_bank_8k", &st.PRGBank8k)
	s.Bytes("chr_banks_1k", st.CHRBanks1k[:])
	s.Bool("irq_mode", &st.IRQMode)
	s.Bool("irq_enabled", &st.IRQEnabled)
	s.Bool("irq_pending", &st.IRQPending)
	s.Bool("irq_autoen", &st.IRQAutoEn)
	s.Uint8("irq_reload", &st.IRQReload)
	s.Uint8("irq_counter", &st.IRQCounter)
	s.Int("irq_prescaler", &st.IRQPrescaler)
	if s.IsReader() && (st.IRQPrescaler < 1 || st.IRQPrescaler > hwdefs.DotsPerScanline) {
		s.Fail("irq_prescaler", errors.Errorf("invalid prescaler %d", st.IRQPrescaler))
	}
	s.Uint8("mirroring", &st.Mirroring)
	if s.IsReader() && st.Mirroring > 3 {
		s.Fail("mirroring", errors.Errorf("invalid mirroring %d", st.Mirroring))
	}
	s.Bytes("ciram", st.CIRAM[:])
	s.Bytes("wram", st.WRAM)
}
