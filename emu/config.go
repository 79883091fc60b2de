package emu

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nesboard/emu/log"
)

type Config struct {
	Audio     AudioConfig     `toml:"audio"`
	Emulation EmulationConfig `toml:"emulation"`
}

type AudioConfig struct {
	SampleRate int `toml:"sample_rate"`

	// TickRate is the rate at which the sound output is sampled, in Hz.
	TickRate int `toml:"tick_rate"`

	// Synthesis is either "nearest" (nearest neighbor resampling) or
	// "blip" (band-limited synthesis).
	Synthesis string `toml:"synthesis"`
}

type EmulationConfig struct {
	FrameRate int `toml:"frame_rate"`

	// OffHeapWRAM allocates the cartridge work RAM outside of the Go heap.
	OffHeapWRAM bool `toml:"offheap_wram"`
}

const (
	SynthNearest = "nearest"
	SynthBlip    = "blip"
)

func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate: 44100,
			TickRate:   31440,
			Synthesis:  SynthNearest,
		},
		Emulation: EmulationConfig{
			FrameRate:   60,
			OffHeapWRAM: true,
		},
	}
}

// Check replaces invalid values with their defaults.
func (cfg *Config) Check() {
	def := DefaultConfig()
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = def.Audio.SampleRate
	}
	if cfg.Audio.TickRate <= 0 {
		cfg.Audio.TickRate = def.Audio.TickRate
	}
	if cfg.Emulation.FrameRate <= 0 {
		cfg.Emulation.FrameRate = def.Emulation.FrameRate
	}
	switch cfg.Audio.Synthesis {
	case SynthNearest, SynthBlip:
	default:
		log.ModEmu.Warnf("Invalid audio synthesis %q, fallback to %q", cfg.Audio.Synthesis, def.Audio.Synthesis)
		cfg.Audio.Synthesis = def.Audio.Synthesis
	}
}

var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("nesboard")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfig loads the configuration at path. Settings absent from the file
// keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), err
	}
	cfg.Check()
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the nesboard config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	path := filepath.Join(ConfigDir(), cfgFilename)
	cfg, err := LoadConfig(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModEmu.WarnZ("failed to load config, using defaults").String("path", path).Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

// SaveConfig into the file at path.
func SaveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// DefaultConfigPath returns the path of the configuration file in the
// nesboard config directory.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}
