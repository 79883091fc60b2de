package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/google/go-cmp/cmp"
)

func TestRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	rec, err := NewRecorder(path, 44100)
	if err != nil {
		t.Fatal(err)
	}

	frames := [][]int16{
		{1, 1, -2, -2, 300, 300},
		{},
		{-32768, -32768, 32767, 32767},
	}
	var want []int
	for _, f := range frames {
		if err := rec.Write(f); err != nil {
			t.Fatal(err)
		}
		for _, s := range f {
			want = append(want, int(s))
		}
	}
	if rec.Samples() != 5 {
		t.Errorf("Samples() = %d, want 5", rec.Samples())
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatalf("recorded file is not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if dec.NumChans != 2 || dec.SampleRate != 44100 || dec.BitDepth != 16 {
		t.Errorf("format = %d chans, %d Hz, %d bits; want 2, 44100, 16", dec.NumChans, dec.SampleRate, dec.BitDepth)
	}
	if diff := cmp.Diff(want, buf.Data); diff != "" {
		t.Errorf("recorded samples mismatch (-want +got):\n%s", diff)
	}
}
