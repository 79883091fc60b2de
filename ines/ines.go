// package ines implements a Reader for roms in the iNES file format, used for
// for the distribution of NES binary programs.
package ines

import (
	"fmt"
	"io"
	"os"
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRGROM  []byte // PRGROM is PRG ROM data (length is multiples of 16k)
	CHRROM  []byte // CHRROM is CHR ROM data (length is multiples of 8k)
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, fmt.Errorf("incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section")
	}
	rom.PRGROM = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section")
	}
	rom.CHRROM = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

const Magic = "NES\x1a"

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return fmt.Errorf("too small, needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return fmt.Errorf("invalid magic number")
	}
	copy(hdr.raw[:], p[:16])

	prgunits, chrunits := int(hdr.raw[4]), int(hdr.raw[5])
	if hdr.IsNES20() {
		prgunits |= int(hdr.raw[9]&0x0F) << 8
		chrunits |= int(hdr.raw[9]>>4) << 8
	}
	hdr.prgsz = prgunits * 16384
	hdr.chrsz = chrunits * 8192
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// Has Trainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// IsNES20 reports whether the header is in the NES 2.0 format.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// Mapper returns the mapper number.
func (hdr *header) Mapper() uint16 {
	m := uint16(hdr.raw[6]>>4) | uint16(hdr.raw[7]&0xF0)
	if hdr.IsNES20() {
		m |= uint16(hdr.raw[8]&0x0F) << 8
	}
	return m
}

// SubMapper returns the submapper number (NES 2.0 only, 0 otherwise).
func (hdr *header) SubMapper() uint8 {
	if hdr.IsNES20() {
		return hdr.raw[8] >> 4
	}
	return 0
}

// PRGRAMSize returns the size of the PRG RAM (volatile and battery-backed) in
// bytes.
func (hdr *header) PRGRAMSize() int {
	if hdr.IsNES20() {
		sz := 0
		if shift := hdr.raw[10] & 0x0F; shift != 0 {
			sz += 64 << shift
		}
		if shift := hdr.raw[10] >> 4; shift != 0 {
			sz += 64 << shift
		}
		return sz
	}
	if n := int(hdr.raw[8]); n != 0 {
		return n * 8192
	}
	// iNES 1.0: a zero size means 8k for compatibility, but only makes sense
	// for carts declaring persistent memory.
	if hdr.HasPersistent() {
		return 8192
	}
	return 0
}

//go:generate go tool stringer -type=NTMirroring

// NTMirroring is the nametable mirroring mode.
type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota
	VertMirroring
	OnlyAScreen
	OnlyBScreen
	FourScreen
)

// Mirroring returns the nametable mirroring mode declared in the header.
func (hdr *header) Mirroring() NTMirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreen
	case hdr.raw[6]&0x01 != 0:
		return VertMirroring
	}
	return HorzMirroring
}

func (rom *Rom) PrintInfos(w io.Writer) {
	format := "iNES 1.0"
	if rom.IsNES20() {
		format = "NES 2.0"
	}
	fmt.Fprintf(w, "format:     %s\n", format)
	fmt.Fprintf(w, "mapper:     %d\n", rom.Mapper())
	fmt.Fprintf(w, "submapper:  %d\n", rom.SubMapper())
	fmt.Fprintf(w, "PRGROM:     %dKB\n", len(rom.PRGROM)/1024)
	fmt.Fprintf(w, "CHRROM:     %dKB\n", len(rom.CHRROM)/1024)
	fmt.Fprintf(w, "PRGRAM:     %dKB\n", rom.PRGRAMSize()/1024)
	fmt.Fprintf(w, "mirroring:  %s\n", rom.Mirroring())
	fmt.Fprintf(w, "persistent: %t\n", rom.HasPersistent())
	fmt.Fprintf(w, "trainer:    %t\n", rom.HasTrainer())
}
