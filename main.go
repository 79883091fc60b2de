package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"text/tabwriter"

	"nesboard/emu"
	"nesboard/emu/log"
	"nesboard/hw/audio"
	"nesboard/hw/mappers"
	"nesboard/hw/memdomain"
	"nesboard/ines"
)

const scanlinesPerFrame = 262

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		rom.PrintInfos(os.Stdout)
		return
	case versionMode:
		printVersion()
		return
	}

	cfg := loadConfig(cli.Config)

	switch cli.mode {
	case domainsMode:
		e := powerUp(cli.Domains.RomPath, cfg)
		defer e.Close()
		listDomains(e)
	case peekMode:
		e := powerUp(cli.Peek.RomPath, cfg)
		defer e.Close()
		peek(e, &cli.Peek)
	case irqTraceMode:
		e := powerUp(cli.IRQTrace.RomPath, cfg)
		defer e.Close()
		irqTrace(e, &cli.IRQTrace)
	case saveStateMode:
		e := powerUp(cli.SaveState.RomPath, cfg)
		defer e.Close()
		checkf(e.RunScanlines(cli.SaveState.Scanlines), "emulation error")
		data, err := e.SaveState()
		checkf(err, "failed to save state")
		checkf(os.WriteFile(cli.SaveState.Out, data, 0644), "failed to write save-state")
	case recordMode:
		e := powerUp(cli.Record.RomPath, cfg)
		defer e.Close()
		record(e, cfg, &cli.Record)
	}
}

func loadConfig(path string) emu.Config {
	if path == "" {
		return emu.LoadConfigOrDefault()
	}
	cfg, err := emu.LoadConfig(path)
	checkf(err, "failed to load config %s", path)
	return cfg
}

func powerUp(path string, cfg emu.Config) *emu.Emulator {
	rom, err := ines.Open(path)
	checkf(err, "failed to open rom")

	cart, err := mappers.CartFromINES(rom)
	checkf(err, "unsupported rom")

	e, err := emu.PowerUp(cart, cfg)
	checkf(err, "error during power up")
	log.AddContext(e)
	return e
}

func listDomains(e *emu.Emulator) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tWORD\tENDIAN\tWRITABLE")
	for d := range e.Domains.All() {
		fmt.Fprintf(w, "%s\t0x%X\t%d\t%s\t%t\n", d.Name(), d.Size(), d.WordSize(), d.Endian(), d.Writable())
	}
	w.Flush()
}

func peek(e *emu.Emulator, args *Peek) {
	checkf(e.RunScanlines(args.Scanlines), "emulation error")

	d, ok := e.Domains.Get(args.Domain)
	if !ok {
		fatalf("no memory domain %q, valid domains are %q", args.Domain, e.Domains.Names())
	}

	buf, err := peekDomain(d, args.Addr, args.Len)
	checkf(err, "failed to peek %s", args.Domain)

	dump := hex.Dumper(os.Stdout)
	dump.Write(buf)
	dump.Close()
}

// peekDomain reads n bytes of d starting at addr. The range is checked before
// the buffer is allocated.
func peekDomain(d memdomain.Domain, addr, n int64) ([]byte, error) {
	if n < 0 || n > d.Size() {
		return nil, &memdomain.RangeError{Domain: d.Name(), Addr: addr, Count: n, Size: d.Size()}
	}
	buf := make([]byte, n)
	if err := d.BulkPeekByte(addr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func irqTrace(e *emu.Emulator, args *IRQTrace) {
	counter, ok := e.Board.(mappers.IRQCounter)
	if !ok {
		fatalf("board %s has no IRQ counter", e.Board.Name())
	}

	var out io.Writer = os.Stdout
	if args.Out != nil {
		defer args.Out.Close()
		out = args.Out
	}

	counter.SetupIRQ(args.Reload, args.Control)

	fmt.Fprintln(out, "scanline counter prescaler pending line")
	for i := range args.Scanlines {
		checkf(e.RunScanlines(1), "emulation error at scanline %d", i)

		st := counter.IRQState()
		fmt.Fprintf(out, "%8d %7d %9d %7t %s\n", i, st.Counter, st.Prescaler, st.Pending, e.IRQSources())
	}
}

func record(e *emu.Emulator, cfg emu.Config, args *Record) {
	rec, err := audio.NewRecorder(args.Out, cfg.Audio.SampleRate)
	checkf(err, "failed to create recorder")

	for i := range args.Frames {
		checkf(e.RunScanlines(scanlinesPerFrame), "emulation error at frame %d", i)
		_, err := e.EndFrame(rec)
		checkf(err, "failed to record frame %d", i)
	}
	checkf(rec.Close(), "failed to close recorder")

	log.ModEmu.InfoZ("recording done").Int("samples", rec.Samples()).String("path", args.Out).End()
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("nesboard", version)
}
