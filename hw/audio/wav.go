package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder writes interleaved stereo 16-bit samples to a WAV file.
type Recorder struct {
	f   *os.File
	enc *wav.Encoder
	buf audio.IntBuffer

	nsamples int
}

func NewRecorder(path string, sampleRate int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wav recorder: %w", err)
	}

	modAudio.InfoZ("recording audio").String("path", path).Int("rate", sampleRate).End()

	const pcm = 1
	return &Recorder{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, 16, 2, pcm),
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// Write appends samples, interleaved left and right, to the file.
func (r *Recorder) Write(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	r.buf.Data = r.buf.Data[:0]
	for _, s := range samples {
		r.buf.Data = append(r.buf.Data, int(s))
	}
	if err := r.enc.Write(&r.buf); err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}
	r.nsamples += len(samples) / 2
	return nil
}

// Samples returns the number of stereo samples written so far.
func (r *Recorder) Samples() int { return r.nsamples }

// Close finalizes the WAV headers and closes the file.
func (r *Recorder) Close() error {
	if err := r.enc.Close(); err != nil {
		r.f.Close()
		return fmt.Errorf("wav recorder: %w", err)
	}
	return r.f.Close()
}
