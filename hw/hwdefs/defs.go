package hwdefs

import "strings"

type IRQSource uint8

const (
	External IRQSource = 1 << iota
	FrameCounter
	DMC

	numSources = 3
)

var irqSrcNames = [numSources]string{
	"ext",
	"fcnt",
	"dmc",
}

func (irq IRQSource) String() string {
	var names []string
	for i := range numSources {
		if irq&(1<<i) != 0 {
			names = append(names, irqSrcNames[i])
		}
	}
	return strings.Join(names, "|")
}

// IRQLine is the CPU interrupt request line. It is shared by pointer between
// the devices able to assert it (cartridge, APU frame counter, DMC) and the
// CPU core, which polls it. Each source asserts or clears its own bit; the
// line is asserted as long as any source is.
type IRQLine struct {
	sources IRQSource
}

// Set asserts (or clears) src on the line.
func (l *IRQLine) Set(src IRQSource, asserted bool) {
	if asserted {
		l.sources |= src
	} else {
		l.sources &^= src
	}
}

// Asserted reports whether at least one source in mask asserts the line.
func (l *IRQLine) Asserted(mask IRQSource) bool {
	return l.sources&mask != 0
}

// Sources returns the set of sources currently asserting the line.
func (l *IRQLine) Sources() IRQSource {
	return l.sources
}

// PPU clocks per scanline, NTSC.
const DotsPerScanline = 341
