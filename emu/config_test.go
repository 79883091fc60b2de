package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nesboard/emu/log"
)

func TestLoadConfig(t *testing.T) {
	log.Disable()
	defer log.Enable()

	tests := []struct {
		name string
		toml string
		want func(*Config)
	}{
		{
			name: "empty",
			toml: "",
			want: func(*Config) {},
		},
		{
			name: "partial",
			toml: "[audio]\nsample_rate = 48000\n",
			want: func(c *Config) { c.Audio.SampleRate = 48000 },
		},
		{
			name: "invalid values",
			toml: "[audio]\nsynthesis = \"cubic\"\ntick_rate = -3\n[emulation]\nframe_rate = 0\noffheap_wram = false\n",
			want: func(c *Config) { c.Emulation.OffHeapWRAM = false },
		},
		{
			name: "blip",
			toml: "[audio]\nsynthesis = \"blip\"\n",
			want: func(c *Config) { c.Audio.Synthesis = SynthBlip },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.toml), 0644); err != nil {
				t.Fatal(err)
			}

			got, err := LoadConfig(path)
			if err != nil {
				t.Fatal(err)
			}
			want := DefaultConfig()
			tt.want(&want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	want := DefaultConfig()
	want.Audio.Synthesis = SynthBlip
	want.Emulation.FrameRate = 50
	if err := SaveConfig(want, path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch after round trip (-want +got):\n%s", diff)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("LoadConfig of a missing file: want error")
	}
}
