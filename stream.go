// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"golang.org/x/text/encoding/unicode"
)

// ReadTrace records one field read for diagnostics, without influencing
// parse behavior (spec.md §4.A).
type ReadTrace struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Stream is a cursor over a package's bytes with an explicit byte order
// established at construction from the signature tag. It is used for both
// reading (backed by an mmap'd or in-memory buffer) and writing (backed by
// a growable buffer that also supports overwriting already-written bytes,
// needed to patch the Summary's table offsets after the tables are laid
// out).
type Stream struct {
	data   []byte
	pos    uint32
	order  binary.ByteOrder
	traces []ReadTrace

	// file-backed state, mirrors the teacher's File.data/File.f split
	// between mmap.Map and os.Open.
	mm mmap.MMap
	f  *os.File
}

// NewStream wraps an in-memory buffer for reading or writing. Byte order
// defaults to little-endian; call DetectByteOrder after the signature is
// read to flip it if needed.
func NewStream(data []byte) *Stream {
	return &Stream{data: data, order: binary.LittleEndian}
}

// OpenStream memory-maps path for reading, mirroring the teacher's
// File.New / mmap.Map(f, mmap.RDONLY, 0).
func OpenStream(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Stream{data: mm, mm: mm, f: f, order: binary.LittleEndian}, nil
}

// Close unmaps and closes the backing file, if any.
func (s *Stream) Close() error {
	if s.mm != nil {
		_ = s.mm.Unmap()
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}

// Len returns the total number of bytes currently in the stream.
func (s *Stream) Len() uint32 { return uint32(len(s.data)) }

// Pos returns the current cursor position.
func (s *Stream) Pos() uint32 { return s.pos }

// Seek repositions the cursor. It does not truncate or grow the buffer.
func (s *Stream) Seek(offset uint32) { s.pos = offset }

// Bytes returns the full underlying buffer (used by Save to hand bytes
// back to the caller).
func (s *Stream) Bytes() []byte { return s.data }

// ByteOrder reports the stream's current byte order.
func (s *Stream) ByteOrder() binary.ByteOrder { return s.order }

// DetectByteOrder inspects the raw signature dword and sets the stream's
// byte order accordingly, returning false if it matches neither magic.
func (s *Stream) DetectByteOrder(raw uint32) bool {
	switch raw {
	case PackageFileTagLittleEndian:
		s.order = binary.LittleEndian
		return true
	case PackageFileTagSwapped:
		s.order = binary.BigEndian
		return true
	default:
		return false
	}
}

func (s *Stream) trace(name string, offset, size uint32) {
	s.traces = append(s.traces, ReadTrace{Name: name, Offset: offset, Size: size})
}

// Traces returns the recorded field reads, for diagnostics/debugging.
func (s *Stream) Traces() []ReadTrace { return s.traces }

func (s *Stream) ensureReadable(n uint32) error {
	if uint64(s.pos)+uint64(n) > uint64(len(s.data)) {
		e := newError(FormatError, int64(s.pos), "read of %d bytes crosses EOF (len=%d)", n, len(s.data))
		e.Err = ErrOutOfRange
		return e
	}
	return nil
}

// ReadU8 reads an unsigned byte.
func (s *Stream) ReadU8(name string) (uint8, error) {
	if err := s.ensureReadable(1); err != nil {
		return 0, err
	}
	v := s.data[s.pos]
	s.trace(name, s.pos, 1)
	s.pos++
	return v, nil
}

// ReadU16 reads an unsigned 16-bit integer.
func (s *Stream) ReadU16(name string) (uint16, error) {
	if err := s.ensureReadable(2); err != nil {
		return 0, err
	}
	v := s.order.Uint16(s.data[s.pos:])
	s.trace(name, s.pos, 2)
	s.pos += 2
	return v, nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (s *Stream) ReadU32(name string) (uint32, error) {
	if err := s.ensureReadable(4); err != nil {
		return 0, err
	}
	v := s.order.Uint32(s.data[s.pos:])
	s.trace(name, s.pos, 4)
	s.pos += 4
	return v, nil
}

// ReadU64 reads an unsigned 64-bit integer.
func (s *Stream) ReadU64(name string) (uint64, error) {
	if err := s.ensureReadable(8); err != nil {
		return 0, err
	}
	v := s.order.Uint64(s.data[s.pos:])
	s.trace(name, s.pos, 8)
	s.pos += 8
	return v, nil
}

// ReadI32 reads a signed 32-bit integer.
func (s *Stream) ReadI32(name string) (int32, error) {
	v, err := s.ReadU32(name)
	return int32(v), err
}

// ReadF32 reads an IEEE-754 32-bit float.
func (s *Stream) ReadF32(name string) (float32, error) {
	v, err := s.ReadU32(name)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadGUID reads four little-endian 32-bit words (16 bytes total).
func (s *Stream) ReadGUID(name string) (GUID, error) {
	var g GUID
	if err := s.ensureReadable(16); err != nil {
		return g, err
	}
	for i := 0; i < 4; i++ {
		g[i] = binary.LittleEndian.Uint32(s.data[s.pos+uint32(i*4):])
	}
	s.trace(name, s.pos, 16)
	s.pos += 16
	return g, nil
}

// ReadBytes returns a bounded slice of raw bytes at the cursor, advancing
// past them. The returned slice aliases the stream's backing array.
func (s *Stream) ReadBytes(name string, n uint32) ([]byte, error) {
	if err := s.ensureReadable(n); err != nil {
		return nil, err
	}
	b := s.data[s.pos : s.pos+n]
	s.trace(name, s.pos, n)
	s.pos += n
	return b, nil
}

// ReadString reads a length-prefixed string per spec.md §4.A: a signed
// 32-bit count, positive for NUL-terminated ANSI, negative for
// NUL-terminated UTF-16LE (|n| code units).
func (s *Stream) ReadString(name string) (string, error) {
	n, err := s.ReadI32(name + ".len")
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if n > 0 {
		raw, err := s.ReadBytes(name, uint32(n))
		if err != nil {
			return "", err
		}
		return string(bytes.TrimRight(raw, "\x00")), nil
	}

	count := uint32(-n)
	raw, err := s.ReadBytes(name, count*2)
	if err != nil {
		return "", err
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, err := decoder.Bytes(raw)
	if err != nil {
		return "", newError(FormatError, int64(s.pos), "invalid UTF-16LE string: %v", err)
	}
	return string(bytes.TrimRight(decoded, "\x00")), nil
}

// NameRef is a (Names-table index, instance suffix) pair. The logical
// suffix printed after the name is suffix-1 when Instance != 0.
type NameRef struct {
	Index    int32
	Instance int32
}

// ReadNameRef reads an FName-shaped pair of int32s.
func (s *Stream) ReadNameRef(name string) (NameRef, error) {
	idx, err := s.ReadI32(name + ".index")
	if err != nil {
		return NameRef{}, err
	}
	inst, err := s.ReadI32(name + ".instance")
	if err != nil {
		return NameRef{}, err
	}
	return NameRef{Index: idx, Instance: inst}, nil
}

// ReadCompactIndex reads UE1's variable-length signed index encoding: the
// first byte holds the sign (0x80), a continuation flag (0x40) and 6
// payload bits; each following byte holds a continuation flag (0x80) and 7
// payload bits.
func (s *Stream) ReadCompactIndex(name string) (int32, error) {
	first, err := s.ReadU8(name + ".b0")
	if err != nil {
		return 0, err
	}
	negative := first&0x80 != 0
	hasMore := first&0x40 != 0
	value := uint32(first & 0x3F)
	shift := uint(6)

	for i := 0; hasMore && i < 4; i++ {
		b, err := s.ReadU8(name + ".bn")
		if err != nil {
			return 0, err
		}
		hasMore = b&0x80 != 0
		value |= uint32(b&0x7F) << shift
		shift += 7
	}

	if negative {
		return -int32(value), nil
	}
	return int32(value), nil
}

// --- Writing ---

func (s *Stream) ensureWritable(n uint32) {
	need := s.pos + n
	if uint32(len(s.data)) < need {
		grown := make([]byte, need)
		copy(grown, s.data)
		s.data = grown
	}
}

// WriteU8 writes an unsigned byte and advances the cursor.
func (s *Stream) WriteU8(v uint8) {
	s.ensureWritable(1)
	s.data[s.pos] = v
	s.pos++
}

// WriteU16 writes an unsigned 16-bit integer.
func (s *Stream) WriteU16(v uint16) {
	s.ensureWritable(2)
	s.order.PutUint16(s.data[s.pos:], v)
	s.pos += 2
}

// WriteU32 writes an unsigned 32-bit integer.
func (s *Stream) WriteU32(v uint32) {
	s.ensureWritable(4)
	s.order.PutUint32(s.data[s.pos:], v)
	s.pos += 4
}

// WriteU64 writes an unsigned 64-bit integer.
func (s *Stream) WriteU64(v uint64) {
	s.ensureWritable(8)
	s.order.PutUint64(s.data[s.pos:], v)
	s.pos += 8
}

// WriteI32 writes a signed 32-bit integer.
func (s *Stream) WriteI32(v int32) { s.WriteU32(uint32(v)) }

// WriteF32 writes an IEEE-754 32-bit float.
func (s *Stream) WriteF32(v float32) { s.WriteU32(math.Float32bits(v)) }

// WriteGUID writes four little-endian 32-bit words.
func (s *Stream) WriteGUID(g GUID) {
	s.ensureWritable(16)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(s.data[s.pos+uint32(i*4):], g[i])
	}
	s.pos += 16
}

// WriteBytes writes raw bytes verbatim.
func (s *Stream) WriteBytes(b []byte) {
	s.ensureWritable(uint32(len(b)))
	copy(s.data[s.pos:], b)
	s.pos += uint32(len(b))
}

// WriteString writes a length-prefixed string in the same shape ReadString
// decodes: ANSI with a positive count when the string is plain ASCII,
// UTF-16LE with a negative count otherwise.
func (s *Stream) WriteString(v string) error {
	if v == "" {
		s.WriteI32(0)
		return nil
	}
	if isASCII(v) {
		s.WriteI32(int32(len(v) + 1))
		s.WriteBytes([]byte(v))
		s.WriteU8(0)
		return nil
	}
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	encoded, err := encoder.Bytes([]byte(v))
	if err != nil {
		return err
	}
	units := int32(len(encoded)/2 + 1)
	s.WriteI32(-units)
	s.WriteBytes(encoded)
	s.WriteU16(0)
	return nil
}

// WriteNameRef writes an FName-shaped pair of int32s.
func (s *Stream) WriteNameRef(n NameRef) {
	s.WriteI32(n.Index)
	s.WriteI32(n.Instance)
}

// WriteCompactIndex writes UE1's variable-length signed index encoding,
// symmetric with ReadCompactIndex.
func (s *Stream) WriteCompactIndex(v int32) {
	negative := v < 0
	value := uint32(v)
	if negative {
		value = uint32(-v)
	}

	b0 := byte(value & 0x3F)
	value >>= 6
	if negative {
		b0 |= 0x80
	}
	if value != 0 {
		b0 |= 0x40
	}
	s.WriteU8(b0)

	for value != 0 {
		b := byte(value & 0x7F)
		value >>= 7
		if value != 0 {
			b |= 0x80
		}
		s.WriteU8(b)
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
