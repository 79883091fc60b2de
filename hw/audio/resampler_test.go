package audio

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nesboard/hw/hwdefs"
)

func TestResamplerMapping(t *testing.T) {
	r := NewResampler(8, 1) // 8 output samples per frame
	for _, s := range []int16{10, 20, 30} {
		r.Tick(s)
	}

	got, nsamp := r.GetSamplesSync()
	if nsamp != 3 {
		t.Errorf("nsamp = %d, want 3 (ticks)", nsamp)
	}
	// index i reads tick floor(i*3/8)
	want := []int16{
		10, 10, 10, 10, 10, 10,
		20, 20, 20, 20, 20, 20,
		30, 30, 30, 30,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestResamplerDownsample(t *testing.T) {
	r := NewResampler(4, 1)
	for i := range 8 {
		r.Tick(int16(i))
	}
	got, nsamp := r.GetSamplesSync()
	want := []int16{0, 0, 2, 2, 4, 4, 6, 6}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
	if nsamp != 8 {
		t.Errorf("nsamp = %d, want 8", nsamp)
	}
}

func TestResamplerDrainIdempotence(t *testing.T) {
	r := NewResampler(44100, 60)
	for range 500 {
		r.Tick(1234)
	}
	if _, nsamp := r.GetSamplesSync(); nsamp != 500 {
		t.Fatalf("first drain: nsamp = %d, want 500", nsamp)
	}

	silence := make([]int16, 2*44100/60)
	for i := range 2 {
		got, nsamp := r.GetSamplesSync()
		if nsamp != 0 {
			t.Errorf("drain %d without ticks: nsamp = %d, want 0", i, nsamp)
		}
		if diff := cmp.Diff(silence, got); diff != "" {
			t.Errorf("drain %d without ticks: not silent (-want +got):\n%s", i, diff)
		}
	}
}

func TestResamplerDiscard(t *testing.T) {
	r := NewResampler(100, 50)
	r.Tick(7)
	r.Tick(8)
	r.DiscardSamples()
	if _, nsamp := r.GetSamplesSync(); nsamp != 0 {
		t.Errorf("nsamp after discard = %d, want 0", nsamp)
	}
}

func TestSetSyncMode(t *testing.T) {
	providers := map[string]SoundProvider{
		"resampler":    NewResampler(44100, 60),
		"band-limited": NewBandLimited(1789773/12, 44100, 60),
	}
	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			if p.SyncMode() != SyncModeSync {
				t.Errorf("SyncMode() = %s, want %s", p.SyncMode(), SyncModeSync)
			}
			if err := p.SetSyncMode(SyncModeSync); err != nil {
				t.Errorf("SetSyncMode(sync) = %v", err)
			}

			err := p.SetSyncMode(SyncModeAsync)
			var uerr *hwdefs.UnsupportedModeError
			if !errors.As(err, &uerr) {
				t.Fatalf("SetSyncMode(async) = %v, want *hwdefs.UnsupportedModeError", err)
			}
			if uerr.Mode != "async" {
				t.Errorf("error mode = %q, want %q", uerr.Mode, "async")
			}
			if p.SyncMode() != SyncModeSync {
				t.Errorf("failed SetSyncMode changed the mode")
			}
		})
	}
}

func TestBandLimited(t *testing.T) {
	const (
		tickRate   = 31440
		sampleRate = 44100
		frameRate  = 60
	)
	b := NewBandLimited(tickRate, sampleRate, frameRate)

	// One frame of a square wave.
	for i := range tickRate / frameRate {
		s := int16(4000)
		if i/20%2 == 0 {
			s = -4000
		}
		b.Tick(s)
	}

	got, nsamp := b.GetSamplesSync()
	want := sampleRate / frameRate
	if nsamp < want-2 || nsamp > want+2 {
		t.Errorf("nsamp = %d, want about %d", nsamp, want)
	}
	if len(got) != nsamp*2 {
		t.Fatalf("len(samples) = %d, want %d", len(got), nsamp*2)
	}

	nonzero := false
	for i := 0; i < len(got); i += 2 {
		if got[i] != got[i+1] {
			t.Fatalf("sample %d: left %d != right %d", i/2, got[i], got[i+1])
		}
		nonzero = nonzero || got[i] != 0
	}
	if !nonzero {
		t.Errorf("square wave synthesized as silence")
	}

	b.Tick(100)
	b.DiscardSamples()
	if _, nsamp := b.GetSamplesSync(); nsamp != 0 {
		t.Errorf("nsamp after discard = %d, want 0", nsamp)
	}
}
