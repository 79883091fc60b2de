// Package snapshot implements save-states.
//
// Components take part in a save-state by implementing Syncer: a single
// SyncState method declares each field of the component state, once, and is
// used both to save and to restore it. Whether the serializer is reading or
// writing, fields are synced by name.
package snapshot

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"nesboard/emu/log"
)

var modSnapshot = log.NewModule("snapshot")

// Syncer is implemented by components whose state can be saved and restored.
type Syncer interface {
	SyncState(s *Serializer)
}

// Serializer encodes or decodes a flat set of named fields as a JSON object.
//
// Errors are sticky: once an error occurred all subsequent calls are no-ops
// and the error is reported by Err and Finish.
type Serializer struct {
	reader bool
	err    error

	enc    jx.Encoder
	fields map[string]jx.Raw
}

// NewWriter returns a Serializer saving the fields it's given.
func NewWriter() *Serializer {
	s := &Serializer{}
	s.enc.ObjStart()
	return s
}

// NewReader returns a Serializer restoring fields from data, as produced by a
// writer.
func NewReader(data []byte) (*Serializer, error) {
	s := &Serializer{
		reader: true,
		fields: make(map[string]jx.Raw),
	}

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		raw, err := d.Raw()
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		s.fields[key] = raw
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return s, nil
}

// IsReader reports whether s restores a state (rather than saves one).
func (s *Serializer) IsReader() bool { return s.reader }

func (s *Serializer) Err() error { return s.err }

// Finish terminates the encoding and returns the serialized state. It must
// only be called on a writer.
func (s *Serializer) Finish() ([]byte, error) {
	if s.reader {
		return nil, errors.New("Finish called on a reader")
	}
	if s.err != nil {
		return nil, s.err
	}
	s.enc.ObjEnd()
	return s.enc.Bytes(), nil
}

// field returns a decoder for the named field, or nil if the serializer is
// in error.
func (s *Serializer) field(name string) *jx.Decoder {
	if s.err != nil {
		return nil
	}
	raw, ok := s.fields[name]
	if !ok {
		s.err = errors.Errorf("missing field %q", name)
		return nil
	}
	return jx.DecodeBytes(raw)
}

// Fail records err as the serializer error, unless it already has one. It lets
// components reject restored values that decoded fine but are invalid.
func (s *Serializer) Fail(name string, err error) {
	if err != nil && s.err == nil {
		s.err = errors.Wrapf(err, "field %q", name)
		modSnapshot.WarnZ("sync state failed").String("field", name).Error("err", err).End()
	}
}

func (s *Serializer) Bool(name string, v *bool) {
	if !s.reader {
		s.enc.FieldStart(name)
		s.enc.Bool(*v)
		return
	}
	if d := s.field(name); d != nil {
		b, err := d.Bool()
		s.Fail(name, err)
		*v = b
	}
}

func (s *Serializer) Uint8(name string, v *uint8) {
	if !s.reader {
		s.enc.FieldStart(name)
		s.enc.UInt8(*v)
		return
	}
	if d := s.field(name); d != nil {
		n, err := d.UInt8()
		s.Fail(name, err)
		*v = n
	}
}

func (s *Serializer) Int(name string, v *int) {
	if !s.reader {
		s.enc.FieldStart(name)
		s.enc.Int(*v)
		return
	}
	if d := s.field(name); d != nil {
		n, err := d.Int()
		s.Fail(name, err)
		*v = n
	}
}

// Bytes syncs a fixed-size byte buffer. When reading, the saved buffer must
// have the same length as v.
func (s *Serializer) Bytes(name string, v []byte) {
	if !s.reader {
		if v == nil {
			v = []byte{} // encode as "", not null
		}
		s.enc.FieldStart(name)
		s.enc.Base64(v)
		return
	}
	d := s.field(name)
	if d == nil {
		return
	}
	buf, err := d.Base64()
	if err != nil {
		s.Fail(name, err)
		return
	}
	if len(buf) != len(v) {
		s.Fail(name, errors.Errorf("length mismatch: got %d, want %d", len(buf), len(v)))
		return
	}
	copy(v, buf)
}

// Save returns the serialized state of x.
func Save(x Syncer) ([]byte, error) {
	s := NewWriter()
	x.SyncState(s)
	return s.Finish()
}

// Load restores the state of x from data. On error, x may have been partially
// restored.
func Load(x Syncer, data []byte) error {
	s, err := NewReader(data)
	if err != nil {
		return err
	}
	x.SyncState(s)
	return s.Err()
}
