package audio

import "github.com/arl/blip"

// BandLimited is a SoundProvider performing band-limited synthesis of the
// tick stream, rather than picking samples. Each frame produces as many
// samples as the tick count and rates dictate.
type BandLimited struct {
	buf    *blip.Buffer
	outbuf []int16

	time     uint64 // ticks in the current frame
	maxTicks uint64
	prev     int16
}

// NewBandLimited returns a BandLimited provider converting tickRate ticks per
// second to sampleRate samples per second. A frame holds at most
// 4*sampleRate/frameRate samples, ticks past that are dropped.
func NewBandLimited(tickRate, sampleRate, frameRate int) *BandLimited {
	nsamples := 4 * sampleRate / frameRate
	b := &BandLimited{
		buf:    blip.NewBuffer(nsamples),
		outbuf: make([]int16, nsamples*2),
	}
	b.buf.SetRates(float64(tickRate), float64(sampleRate))
	b.maxTicks = uint64(b.buf.ClocksNeeded(nsamples - 1))
	return b
}

func (b *BandLimited) SyncMode() SyncMode { return SyncModeSync }

func (b *BandLimited) SetSyncMode(mode SyncMode) error {
	return setSyncMode("band-limited synthesis", mode)
}

func (b *BandLimited) Tick(sample int16) {
	if b.time >= b.maxTicks {
		return
	}
	if delta := int32(sample) - int32(b.prev); delta != 0 {
		b.buf.AddDelta(b.time, delta)
		b.prev = sample
	}
	b.time++
}

func (b *BandLimited) DiscardSamples() {
	b.buf.Clear()
	b.time = 0
	b.prev = 0
}

// GetSamplesSync returns the samples synthesized during the frame, nsamp is
// the number of stereo samples. The returned buffer is only valid until the
// next call.
func (b *BandLimited) GetSamplesSync() ([]int16, int) {
	b.buf.EndFrame(int(b.time))
	b.time = 0

	n := b.buf.ReadSamples(b.outbuf, b.buf.SamplesAvailable(), blip.Stereo)
	// Duplicate left channel into right channel.
	for i := 0; i < n*2; i += 2 {
		b.outbuf[i+1] = b.outbuf[i]
	}
	return b.outbuf[:n*2], n
}
