package audio

// Resampler is a SoundProvider converting ticks to output samples with a
// nearest neighbor mapping. Each frame produces sampleRate/frameRate stereo
// samples, whatever the number of ticks received.
type Resampler struct {
	outLen int
	ticks  []int16
}

// NewResampler returns a Resampler producing sampleRate samples per second,
// for frameRate frames per second.
func NewResampler(sampleRate, frameRate int) *Resampler {
	return &Resampler{
		outLen: sampleRate / frameRate,
		ticks:  make([]int16, 0, 1024),
	}
}

func (r *Resampler) SyncMode() SyncMode { return SyncModeSync }

func (r *Resampler) SetSyncMode(mode SyncMode) error {
	return setSyncMode("resampler", mode)
}

func (r *Resampler) Tick(sample int16) {
	r.ticks = append(r.ticks, sample)
}

func (r *Resampler) DiscardSamples() {
	r.ticks = r.ticks[:0]
}

// GetSamplesSync returns a new buffer of the frame samples, each output
// sample i taken from tick i*nticks/outLen and copied on both channels.
// nsamp is the number of ticks received during the frame. Ticks are dropped
// after each call, so a call without ticks in between returns silence.
func (r *Resampler) GetSamplesSync() ([]int16, int) {
	out := make([]int16, r.outLen*2)
	nticks := len(r.ticks)
	if nticks > 0 {
		for i := range r.outLen {
			s := r.ticks[i*nticks/r.outLen]
			out[i*2] = s
			out[i*2+1] = s
		}
	}

	modAudio.DebugZ("frame samples").Int("ticks", nticks).Int("out", r.outLen).End()

	r.ticks = r.ticks[:0]
	return out, nticks
}
