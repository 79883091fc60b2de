package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"nesboard/emu/log"
)

type mode byte

const (
	romInfosMode  mode = iota // Show ROM infos
	domainsMode               // List memory domains
	peekMode                  // Dump memory domain
	irqTraceMode              // Trace IRQ counter
	saveStateMode             // Write save-state
	recordMode                // Record audio
	versionMode               // Show version
)

type (
	CLI struct {
		RomInfos  RomInfos  `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Domains   Domains   `cmd:"" help:"List the memory domains of a cartridge."`
		Peek      Peek      `cmd:"" help:"Dump the content of a memory domain."`
		IRQTrace  IRQTrace  `cmd:"" help:"Trace the board IRQ counter, scanline by scanline." name:"irq-trace"`
		SaveState SaveState `cmd:"" help:"Run a cartridge and write its save-state." name:"save-state"`
		Record    Record    `cmd:"" help:"Run a cartridge and record its audio output to a WAV file."`
		Version   Version   `cmd:"" help:"Show nesboard version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string     `help:"${config_help}" type:"existingfile" placeholder:"FILE"`

		mode mode
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Domains struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Peek struct {
		RomPath   string `arg:"" name:"/path/to/rom" type:"existingfile"`
		Domain    string `help:"Memory domain name." default:"System Bus"`
		Addr      int64  `help:"Start address." default:"0"`
		Len       int64  `help:"Number of bytes." default:"256"`
		Scanlines int    `help:"${scanlines_help}" default:"0"`
	}

	IRQTrace struct {
		RomPath   string   `arg:"" name:"/path/to/rom" type:"existingfile"`
		Reload    uint8    `help:"IRQ reload value." default:"0"`
		Control   uint8    `help:"IRQ control value." default:"2"`
		Scanlines int      `help:"${scanlines_help}" default:"262"`
		Out       *outfile `help:"Write trace to file." placeholder:"FILE|stdout|stderr"`
	}

	SaveState struct {
		RomPath   string `arg:"" name:"/path/to/rom" type:"existingfile"`
		Scanlines int    `help:"${scanlines_help}" default:"262"`
		Out       string `help:"Save-state file." required:"" type:"path"`
	}

	Record struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
		Frames  int    `help:"Number of frames to run." default:"60"`
		Out     string `help:"WAV file." required:"" type:"path"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"log_help":       "Enable logging for specified modules.",
	"config_help":    "Configuration file. (default: config.toml in the user config directory)",
	"scanlines_help": "Number of scanlines to run first.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("nesboard"),
		kong.Description("NES cartridge board emulator and inspection tool."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "rom-infos </path/to/rom>":
		cfg.mode = romInfosMode
	case "domains </path/to/rom>":
		cfg.mode = domainsMode
	case "peek </path/to/rom>":
		cfg.mode = peekMode
	case "irq-trace </path/to/rom>":
		cfg.mode = irqTraceMode
	case "save-state </path/to/rom>":
		cfg.mode = saveStateMode
	case "record </path/to/rom>":
		cfg.mode = recordMode
	case "version":
		cfg.mode = versionMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Command() != "version" {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s
  
  As a special case, the following values are accepted: 
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
