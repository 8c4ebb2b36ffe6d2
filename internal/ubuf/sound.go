package ubuf

import (
	"errors"

	"github.com/openheadend/upipe-go/internal/refcount"
	"github.com/openheadend/upipe-go/internal/umem"
)

// ChannelDesc describes one named audio channel (e.g. "l", "r", or
// packed "lr") and its sample octet-size.
type ChannelDesc struct {
	Name       string
	SampleSize int
}

type soundPlane struct {
	desc ChannelDesc
	back *backing
	base int // current offset, in samples, into the backing buffer
	len  int // sample count currently visible
}

// SoundMgr is the factory for Sound buffers.
type SoundMgr struct {
	mem      umem.Mgr
	channels []ChannelDesc
}

// NewSoundMgr creates a sound-buffer manager for the given channel
// layout.
func NewSoundMgr(mem umem.Mgr, channels []ChannelDesc) *SoundMgr {
	return &SoundMgr{mem: mem, channels: channels}
}

// Alloc allocates samples-long buffers for every channel.
func (m *SoundMgr) Alloc(samples int) (*Sound, error) {
	s := &Sound{mgr: m, samples: samples}
	for _, c := range m.channels {
		mem, err := m.mem.Alloc(samples * c.SampleSize)
		if err != nil {
			return nil, err
		}
		s.planes = append(s.planes, &soundPlane{desc: c, back: newBacking(m.mem, mem), len: samples})
	}
	s.rc = refcount.New(s.destroy)
	return s, nil
}

// Sound is the sound-variant payload buffer.
type Sound struct {
	rc      *refcount.Refcount
	mgr     *SoundMgr
	samples int
	planes  []*soundPlane
}

func (s *Sound) destroy() {
	for _, pl := range s.planes {
		pl.back.rc.Release()
	}
}

func (s *Sound) Use() Buffer {
	s.rc.Use()
	return s
}
func (s *Sound) Release() { s.rc.Release() }
func (s *Sound) Dup() Buffer {
	return s.Use()
}

func (s *Sound) Shared() bool {
	if s.rc.Count() > 1 {
		return true
	}
	for _, pl := range s.planes {
		if pl.back.rc.Count() > 1 {
			return true
		}
	}
	return false
}

// Samples returns the current visible sample count.
func (s *Sound) Samples() int { return s.samples }

func (s *Sound) channel(name string) (*soundPlane, error) {
	for _, pl := range s.planes {
		if pl.desc.Name == name {
			return pl, nil
		}
	}
	return nil, errors.New("ubuf: no such channel")
}

func (pl *soundPlane) access(offset, length int) ([]byte, error) {
	if length < 0 {
		length = pl.len - offset
	}
	if offset < 0 || length < 0 || offset+length > pl.len {
		return nil, errors.New("ubuf: sound region out of bounds")
	}
	start := (pl.base + offset) * pl.desc.SampleSize
	end := start + length*pl.desc.SampleSize
	return pl.back.mem.Buf[start:end], nil
}

// PlaneRead maps [offset, offset+length) samples of the named channel
// (length<0 means "to the end").
func (s *Sound) PlaneRead(name string, offset, length int) ([]byte, error) {
	pl, err := s.channel(name)
	if err != nil {
		return nil, err
	}
	return pl.access(offset, length)
}

// PlaneWrite is PlaneRead with the copy-on-write check.
func (s *Sound) PlaneWrite(name string, offset, length int) ([]byte, error) {
	if s.Shared() {
		return nil, ErrWouldCopy
	}
	return s.PlaneRead(name, offset, length)
}

// Resize advances every channel's base pointer by offset samples and
// sets the new visible length, walking every plane and advancing its
// base pointer by offset * sample_size.
func (s *Sound) Resize(offset, newLen int) error {
	for _, pl := range s.planes {
		nb := pl.base + offset
		if nb < 0 {
			return errors.New("ubuf: sound_resize before start of buffer")
		}
		nl := newLen
		if nl < 0 {
			nl = pl.len - offset
		}
		if nb+nl > cap(pl.back.mem.Buf)/pl.desc.SampleSize {
			return errors.New("ubuf: sound_resize exceeds backing capacity")
		}
		pl.base = nb
		pl.len = nl
	}
	if newLen < 0 {
		s.samples -= offset
	} else {
		s.samples = newLen
	}
	return nil
}

var _ Buffer = (*Sound)(nil)
