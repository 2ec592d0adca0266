// Package codec implements the EWF chunk codec: decompression, pattern-fill
// expansion, and checksum verification on read; compression, pattern-fill
// detection, and checksum stamping on write (spec.md §4.4).
package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	sp "github.com/ongniud/slice-pool"

	"github.com/dcforensics/goewf/internal/section"
)

// Flags mirrors the Ex01 chunk_data_flags / v1 range flags union from
// spec.md §3: a chunk table entry's flags determine how the codec treats
// its payload.
type Flags uint8

const (
	IsCompressed Flags = 1 << iota
	HasChecksum
	IsSparse
	UsesPatternFill
	IsDelta
	IsCorrupted
	IsTainted
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

func (f Flags) String() string {
	var b bytes.Buffer
	add := func(name string, bit Flags) {
		if f.Has(bit) {
			if b.Len() > 0 {
				b.WriteByte('|')
			}
			b.WriteString(name)
		}
	}
	add("compressed", IsCompressed)
	add("checksum", HasChecksum)
	add("sparse", IsSparse)
	add("pattern", UsesPatternFill)
	add("delta", IsDelta)
	add("corrupted", IsCorrupted)
	add("tainted", IsTainted)
	if b.Len() == 0 {
		return "none"
	}
	return b.String()
}

// MaxDeflateOverhead bounds the worst-case expansion DEFLATE can add to an
// incompressible input; used to size scratch buffers (spec.md §5).
const MaxDeflateOverhead = 13

// Level selects the compression effort for the write path.
type Level int

const (
	LevelNone Level = iota
	LevelFast
	LevelBest
)

func (l Level) zlibLevel() int {
	switch l {
	case LevelFast:
		return zlib.BestSpeed
	case LevelBest:
		return zlib.BestCompression
	default:
		return zlib.NoCompression
	}
}

// Pool is the shared scratch-buffer pool for chunk-sized allocations,
// grounded on ongniud-wal's bp := sp.NewSlicePoolDefault[byte]() pattern but
// sized to cover a full chunk plus codec overhead rather than WAL block
// headers.
type Pool struct {
	sp *sp.SlicePool[byte]
}

// NewPool builds a Pool whose largest bucket covers chunkSize plus codec
// overhead, so a single chunk's worth of scratch space never falls back to
// an unpooled allocation.
func NewPool(chunkSize int) *Pool {
	max := chunkSize + MaxDeflateOverhead + 4
	return &Pool{sp: sp.NewSlicePool[byte](64, max, 2)}
}

// Alloc returns a scratch slice of at least n bytes of capacity.
func (p *Pool) Alloc(n int) []byte { return p.sp.Alloc(n)[:0] }

// Free returns a scratch slice to the pool.
func (p *Pool) Free(b []byte) { p.sp.Free(b) }

// Checksum computes the EWF rolling checksum (spec.md §4.4, §8 P3).
func Checksum(data []byte) uint32 { return section.Checksum(data) }

// DecodeError is returned for DEFLATE failures and checksum mismatches
// during Decode.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("codec: %s", e.Reason)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// Decode turns a physical chunk into plaintext media bytes (spec.md §4.4
// "Decode (read path)"). declaredChunkSize is the media model's chunk size;
// the last chunk of an image may legitimately decode shorter.
func Decode(raw []byte, flags Flags, declaredChunkSize int) (plaintext []byte, corrupted bool, err error) {
	switch {
	case flags.Has(IsSparse):
		return nil, false, &DecodeError{Reason: "sparse range reached codec; caller must expand zero-fill"}

	case flags.Has(UsesPatternFill):
		return decodePatternFill(raw, declaredChunkSize)

	case flags.Has(IsCompressed):
		out, err := inflate(raw, declaredChunkSize)
		if err != nil {
			return nil, true, &DecodeError{Reason: "decompress", Err: err}
		}
		return out, false, nil

	default:
		if flags.Has(HasChecksum) {
			if len(raw) < 4 {
				return nil, true, &DecodeError{Reason: "raw chunk shorter than checksum field"}
			}
			n := len(raw) - 4
			want := binary.LittleEndian.Uint32(raw[n:])
			got := Checksum(raw[:n])
			if got != want {
				return raw[:n], true, nil
			}
			return raw[:n], false, nil
		}
		return raw, false, nil
	}
}

func inflate(compressed []byte, declaredChunkSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	buf := make([]byte, 0, declaredChunkSize)
	out := bytes.NewBuffer(buf)
	if _, err := io.Copy(out, r); err != nil {
		return nil, err
	}
	if out.Len() > declaredChunkSize {
		return nil, fmt.Errorf("inflated %d bytes exceeds declared chunk size %d", out.Len(), declaredChunkSize)
	}
	return out.Bytes(), nil
}

func decodePatternFill(raw []byte, declaredChunkSize int) ([]byte, bool, error) {
	if len(raw) < 16 {
		return nil, true, &DecodeError{Reason: "pattern-fill payload shorter than 16 bytes"}
	}
	pattern := raw[:8]
	repeatCount := binary.LittleEndian.Uint32(raw[8:12])
	// The write path always stamps pattern-fill payloads with HAS_CHECKSUM
	// (spec.md §4.4 encode step 1); verify it the same way raw chunks are.
	n := len(raw) - 4
	want := binary.LittleEndian.Uint32(raw[n:])
	if Checksum(raw[:n]) != want {
		return nil, true, &DecodeError{Reason: "pattern-fill checksum mismatch"}
	}
	size := int(repeatCount) * 8
	if size <= 0 || size > declaredChunkSize {
		return nil, true, &DecodeError{Reason: "pattern-fill repeat count out of range"}
	}
	out := make([]byte, size)
	for i := 0; i < size; i += 8 {
		copy(out[i:], pattern)
	}
	return out, false, nil
}

// isPeriodic8 reports whether buf is an exact repetition of its first 8
// bytes (spec.md §4.4 encode step 1's pattern-fill detection).
func isPeriodic8(buf []byte) bool {
	if len(buf) == 0 || len(buf)%8 != 0 {
		return false
	}
	pattern := buf[:8]
	for i := 8; i < len(buf); i += 8 {
		if !bytes.Equal(buf[i:i+8], pattern) {
			return false
		}
	}
	return true
}

// EncodeOptions configures Encode's behavior (spec.md §4.4 "Encode
// (write path)").
type EncodeOptions struct {
	Level              Level
	PatternFillEnabled bool
	CompressEmptyBlock bool
}

// Encode turns plaintext media bytes into a physical chunk payload plus the
// flags that describe it.
func Encode(plaintext []byte, opts EncodeOptions) (payload []byte, flags Flags, err error) {
	if opts.PatternFillEnabled && len(plaintext) >= 8 && isPeriodic8(plaintext) {
		out := make([]byte, 0, 16)
		out = append(out, plaintext[:8]...)
		var countBuf [4]byte
		binary.LittleEndian.PutUint32(countBuf[:], uint32(len(plaintext)/8))
		out = append(out, countBuf[:]...)
		cs := Checksum(out)
		var csBuf [4]byte
		binary.LittleEndian.PutUint32(csBuf[:], cs)
		out = append(out, csBuf[:]...)
		return out, UsesPatternFill | HasChecksum, nil
	}

	allZero := isAllZero(plaintext)

	if opts.Level == LevelNone && !(allZero && opts.CompressEmptyBlock) {
		out := make([]byte, len(plaintext)+4)
		copy(out, plaintext)
		cs := Checksum(plaintext)
		binary.LittleEndian.PutUint32(out[len(plaintext):], cs)
		return out, HasChecksum, nil
	}

	level := opts.Level
	if level == LevelNone {
		// Only an all-zero buffer with CompressEmptyBlock set gets here.
		level = LevelFast
	}
	compressed, err := deflate(plaintext, level)
	if err != nil {
		return nil, 0, fmt.Errorf("codec: compress: %w", err)
	}
	if len(compressed) >= len(plaintext)+4 {
		out := make([]byte, len(plaintext)+4)
		copy(out, plaintext)
		cs := Checksum(plaintext)
		binary.LittleEndian.PutUint32(out[len(plaintext):], cs)
		return out, HasChecksum, nil
	}
	return compressed, IsCompressed, nil
}

func deflate(plaintext []byte, level Level) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level.zlibLevel())
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(plaintext); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}
