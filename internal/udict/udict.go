// Package udict implements the attribute dictionary: an ordered
// sequence of (type, name) -> value entries with a compact wire
// encoding and an optional per-entry shorthand byte for frequently
// used keys.
//
// Lookup is an explicit map keyed by (TypeTag, name) over an ordered
// slice, with a compact serialized form (Export/Import) reserved for
// uref duplication and wire boundaries rather than every access.
package udict

import (
	"encoding/binary"
	"errors"
	"math"
)

// TypeTag identifies the value kind stored under a key, from a closed
// set.
type TypeTag uint8

const (
	TypeOpaque TypeTag = iota
	TypeString
	TypeBool
	TypeSmallUnsigned
	TypeSmallInt
	TypeUnsigned
	TypeInt
	TypeFloat
	TypeRational
	TypeVoid
)

// Rational is a num/den pair.
type Rational struct {
	Num, Den int64
}

// Value holds exactly one payload for the entry's TypeTag; only the
// field matching Tag is meaningful.
type Value struct {
	Tag      TypeTag
	Opaque   []byte
	String   string
	Bool     bool
	Small    int64 // SmallUnsigned / SmallInt share a compact varint field
	Unsigned uint64
	Int      int64
	Float    float64
	Rational Rational
}

type key struct {
	tag  TypeTag
	name string
}

type entry struct {
	key   key
	value Value
}

// Dict is an ordered attribute map. The zero value is ready to use.
type Dict struct {
	entries []entry
	index   map[key]int
	// shorthand maps a (tag,name) pair to its single wire byte, and
	// back; populated by RegisterShorthand. 0 is reserved (means "no
	// shorthand" on the wire).
	shorthand   map[key]byte
	unshorthand map[byte]key
}

// New returns an empty dictionary.
func New() *Dict {
	return &Dict{index: make(map[key]int)}
}

// RegisterShorthand binds a single wire byte (1-255) to a (tag,name)
// pair for compact encoding. It is a dictionary-manager-level
// configuration step, not a per-entry operation.
func (d *Dict) RegisterShorthand(b byte, tag TypeTag, name string) {
	if b == 0 {
		return
	}
	if d.shorthand == nil {
		d.shorthand = make(map[key]byte)
		d.unshorthand = make(map[byte]key)
	}
	k := key{tag, name}
	d.shorthand[k] = b
	d.unshorthand[b] = k
}

// Get looks up the value stored under (tag, name).
func (d *Dict) Get(tag TypeTag, name string) (Value, bool) {
	i, ok := d.index[key{tag, name}]
	if !ok {
		return Value{}, false
	}
	return d.entries[i].value, true
}

// Set stores (or overwrites) the value under (tag, name). Keys with
// different types are distinct even if the name matches.
func (d *Dict) Set(tag TypeTag, name string, v Value) {
	v.Tag = tag
	k := key{tag, name}
	if i, ok := d.index[k]; ok {
		d.entries[i].value = v
		return
	}
	if d.index == nil {
		d.index = make(map[key]int)
	}
	d.index[k] = len(d.entries)
	d.entries = append(d.entries, entry{key: k, value: v})
}

// Delete removes the entry under (tag, name), if present.
func (d *Dict) Delete(tag TypeTag, name string) {
	k := key{tag, name}
	i, ok := d.index[k]
	if !ok {
		return
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.index, k)
	for j := i; j < len(d.entries); j++ {
		d.index[d.entries[j].key] = j
	}
}

// Iterate calls fn for every entry in insertion order, stopping early
// if fn returns false.
func (d *Dict) Iterate(fn func(tag TypeTag, name string, v Value) bool) {
	for _, e := range d.entries {
		if !fn(e.key.tag, e.key.name, e.value) {
			return
		}
	}
}

// Len reports the number of entries.
func (d *Dict) Len() int { return len(d.entries) }

// Dup returns an independent copy sharing no backing slices with d
// (opaque-byte values are copied), and carrying the same shorthand
// table.
func (d *Dict) Dup() *Dict {
	nd := &Dict{
		index:       make(map[key]int, len(d.entries)),
		entries:     make([]entry, len(d.entries)),
		shorthand:   d.shorthand,
		unshorthand: d.unshorthand,
	}
	for i, e := range d.entries {
		v := e.value
		if v.Tag == TypeOpaque && v.Opaque != nil {
			v.Opaque = append([]byte(nil), v.Opaque...)
		}
		nd.entries[i] = entry{key: e.key, value: v}
		nd.index[e.key] = i
	}
	return nd
}

// Export serializes the dictionary to its compact wire form: a
// concatenation of entries, each beginning with either a registered
// shorthand byte or a zero byte followed by the type tag and a
// length-prefixed name, then a length-prefixed value payload. The
// whole result is one contiguous byte range so a uref manager can
// duplicate it by copying bytes.
func (d *Dict) Export() []byte {
	var buf []byte
	var scratch [binary.MaxVarintLen64]byte

	putUvarint := func(n int) {
		w := binary.PutUvarint(scratch[:], uint64(n))
		buf = append(buf, scratch[:w]...)
	}

	for _, e := range d.entries {
		if sb, ok := d.shorthand[e.key]; ok {
			buf = append(buf, sb)
		} else {
			buf = append(buf, 0, byte(e.key.tag))
			putUvarint(len(e.key.name))
			buf = append(buf, e.key.name...)
		}
		payload := encodeValue(e.value)
		putUvarint(len(payload))
		buf = append(buf, payload...)
	}
	return buf
}

// Import decodes a byte range produced by Export, consulting the given
// shorthand table (use the same Dict instance or one with the same
// registrations that produced the bytes) to resolve shorthand bytes.
func Import(data []byte, shorthands *Dict) (*Dict, error) {
	d := New()
	if shorthands != nil {
		d.shorthand = shorthands.shorthand
		d.unshorthand = shorthands.unshorthand
	}

	pos := 0
	readUvarint := func() (int, error) {
		n, w := binary.Uvarint(data[pos:])
		if w <= 0 {
			return 0, errors.New("udict: truncated length prefix")
		}
		pos += w
		return int(n), nil
	}

	for pos < len(data) {
		marker := data[pos]
		pos++
		var k key
		if marker == 0 {
			if pos >= len(data) {
				return nil, errors.New("udict: truncated tag byte")
			}
			tag := TypeTag(data[pos])
			pos++
			nameLen, err := readUvarint()
			if err != nil {
				return nil, err
			}
			if pos+nameLen > len(data) {
				return nil, errors.New("udict: truncated name")
			}
			k = key{tag, string(data[pos : pos+nameLen])}
			pos += nameLen
		} else {
			uk, ok := d.unshorthand[marker]
			if !ok {
				return nil, errors.New("udict: unknown shorthand byte")
			}
			k = uk
		}
		valLen, err := readUvarint()
		if err != nil {
			return nil, err
		}
		if pos+valLen > len(data) {
			return nil, errors.New("udict: truncated value")
		}
		v, err := decodeValue(k.tag, data[pos:pos+valLen])
		if err != nil {
			return nil, err
		}
		pos += valLen
		d.Set(k.tag, k.name, v)
	}
	return d, nil
}

func encodeValue(v Value) []byte {
	switch v.Tag {
	case TypeOpaque:
		return v.Opaque
	case TypeString:
		return []byte(v.String)
	case TypeBool:
		if v.Bool {
			return []byte{1}
		}
		return []byte{0}
	case TypeSmallUnsigned:
		b := make([]byte, binary.MaxVarintLen64)
		n := binary.PutUvarint(b, uint64(v.Small))
		return b[:n]
	case TypeSmallInt:
		b := make([]byte, binary.MaxVarintLen64)
		n := binary.PutVarint(b, v.Small)
		return b[:n]
	case TypeUnsigned:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, v.Unsigned)
		return b
	case TypeInt:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(v.Int))
		return b
	case TypeFloat:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, math.Float64bits(v.Float))
		return b
	case TypeRational:
		b := make([]byte, 2*binary.MaxVarintLen64)
		n1 := binary.PutVarint(b, v.Rational.Num)
		n2 := binary.PutVarint(b[n1:], v.Rational.Den)
		return b[:n1+n2]
	case TypeVoid:
		return nil
	default:
		return nil
	}
}

func decodeValue(tag TypeTag, b []byte) (Value, error) {
	switch tag {
	case TypeOpaque:
		return Value{Tag: tag, Opaque: append([]byte(nil), b...)}, nil
	case TypeString:
		return Value{Tag: tag, String: string(b)}, nil
	case TypeBool:
		if len(b) != 1 {
			return Value{}, errors.New("udict: bad bool value")
		}
		return Value{Tag: tag, Bool: b[0] != 0}, nil
	case TypeSmallUnsigned:
		n, w := binary.Uvarint(b)
		if w <= 0 {
			return Value{}, errors.New("udict: bad small-unsigned value")
		}
		return Value{Tag: tag, Small: int64(n)}, nil
	case TypeSmallInt:
		n, w := binary.Varint(b)
		if w <= 0 {
			return Value{}, errors.New("udict: bad small-int value")
		}
		return Value{Tag: tag, Small: n}, nil
	case TypeUnsigned:
		if len(b) != 8 {
			return Value{}, errors.New("udict: bad unsigned64 value")
		}
		return Value{Tag: tag, Unsigned: binary.BigEndian.Uint64(b)}, nil
	case TypeInt:
		if len(b) != 8 {
			return Value{}, errors.New("udict: bad int64 value")
		}
		return Value{Tag: tag, Int: int64(binary.BigEndian.Uint64(b))}, nil
	case TypeFloat:
		if len(b) != 8 {
			return Value{}, errors.New("udict: bad float value")
		}
		return Value{Tag: tag, Float: math.Float64frombits(binary.BigEndian.Uint64(b))}, nil
	case TypeRational:
		num, n1 := binary.Varint(b)
		if n1 <= 0 {
			return Value{}, errors.New("udict: bad rational numerator")
		}
		den, n2 := binary.Varint(b[n1:])
		if n2 <= 0 {
			return Value{}, errors.New("udict: bad rational denominator")
		}
		return Value{Tag: tag, Rational: Rational{Num: num, Den: den}}, nil
	case TypeVoid:
		return Value{Tag: tag}, nil
	default:
		return Value{}, errors.New("udict: unknown type tag")
	}
}
