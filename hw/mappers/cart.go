package mappers

import (
	"fmt"

	"nesboard/ines"
)

// Cart describes a cartridge: the board it's built on and its memories.
type Cart struct {
	BoardType string // e.g "KONAMI-VRC-6"
	PCB       string // board revision, e.g "351951"

	PRG      []byte
	CHR      []byte
	WRAMSize int

	Mirroring ines.NTMirroring // as soldered, for boards without mirroring control
}

type inesBoard struct {
	board string
	pcb   string
}

// iNES mappers numbers do not distinguish board revisions, this table gives
// the board and PCB to use for each supported mapper number.
var inesBoards = map[uint16]inesBoard{
	24: {"KONAMI-VRC-6", "351951"},  // VRC6a
	26: {"KONAMI-VRC-6", "351949A"}, // VRC6b, A0 and A1 swapped
}

// CartFromINES builds a cartridge description from an iNES rom.
func CartFromINES(rom *ines.Rom) (*Cart, error) {
	b, ok := inesBoards[rom.Mapper()]
	if !ok {
		return nil, &ConfigError{Board: fmt.Sprintf("ines mapper %d", rom.Mapper()), Reason: "unsupported mapper"}
	}
	return &Cart{
		BoardType: b.board,
		PCB:       b.pcb,
		PRG:       rom.PRGROM,
		CHR:       rom.CHRROM,
		WRAMSize:  rom.PRGRAMSize(),
		Mirroring: rom.Mirroring(),
	}, nil
}
