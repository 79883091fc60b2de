// Package audio converts the sample stream produced by the emulated sound
// hardware, one sample per tick, into interleaved stereo buffers at the host
// output rate, delivered once per frame.
package audio

import (
	"nesboard/emu/log"
	"nesboard/hw/hwdefs"
)

var modAudio = log.ModSound

//go:generate go tool stringer -type=SyncMode -linecomment

// SyncMode is the way samples are delivered to the host.
type SyncMode uint8

const (
	// SyncModeSync: the host pulls all the samples of a frame at the end of
	// that frame.
	SyncModeSync SyncMode = iota // sync

	// SyncModeAsync: the host pulls samples whenever its audio device needs
	// them.
	SyncModeAsync // async
)

// A SoundProvider buffers ticks during a frame and delivers them as a stereo
// buffer when the frame ends.
type SoundProvider interface {
	SyncMode() SyncMode
	SetSyncMode(SyncMode) error

	// GetSamplesSync drains the buffered ticks. samples is interleaved
	// stereo (left, right).
	GetSamplesSync() (samples []int16, nsamp int)

	// DiscardSamples drops the ticks buffered so far.
	DiscardSamples()

	// Tick appends one sample of the emulated sound output.
	Tick(sample int16)
}

// only sync mode is supported by our providers.
func setSyncMode(what string, mode SyncMode) error {
	if mode != SyncModeSync {
		return &hwdefs.UnsupportedModeError{What: what, Mode: mode.String()}
	}
	return nil
}
