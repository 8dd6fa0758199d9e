package lsh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/tatrec/vector"
)

// Magic prefixes every serialized LSH index.
var Magic = []byte("TLSH")

const formatVersion = 1

var errTruncated = errors.New("lsh: truncated data")

// IsBlob reports whether data looks like a serialized LSH index.
func IsBlob(data []byte) bool {
	return bytes.HasPrefix(data, Magic)
}

// MarshalBinary stores: magic, version, dim, hashSize, tables, probeRadius
// (uint32 each), hyperplanes (float32[tables*hashSize*dim]), n(uint32), then
// for each entry labelLen(uint32), label bytes, vec(float32[dim]), then per
// table nBuckets(uint32) followed by code(uint64), count(uint32), ids(uint32...)
// in ascending code order.
func (x *Index) MarshalBinary() ([]byte, error) {
	size := len(Magic) + 6*4 + 4*len(x.planes)*x.hashSize*x.dim
	for _, e := range x.entries {
		size += 4 + len(e.Label) + 4*x.dim
	}
	out := make([]byte, 0, size)
	putU32 := func(v uint32) { out = binary.LittleEndian.AppendUint32(out, v) }
	putU64 := func(v uint64) { out = binary.LittleEndian.AppendUint64(out, v) }
	putF32 := func(v float32) { out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v)) }

	out = append(out, Magic...)
	putU32(formatVersion)
	putU32(uint32(x.dim))
	putU32(uint32(x.hashSize))
	putU32(uint32(len(x.planes)))
	putU32(uint32(x.probeRadius))
	for t := range x.planes {
		for _, plane := range x.planes[t] {
			for _, v := range plane {
				putF32(v)
			}
		}
	}
	putU32(uint32(len(x.entries)))
	for _, e := range x.entries {
		putU32(uint32(len(e.Label)))
		out = append(out, e.Label...)
		for _, v := range e.Vector {
			putF32(v)
		}
	}
	for _, table := range x.tables {
		codes := make([]uint64, 0, len(table))
		for code := range table {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(a, b int) bool { return codes[a] < codes[b] })
		putU32(uint32(len(codes)))
		for _, code := range codes {
			ids := table[code]
			putU64(code)
			putU32(uint32(len(ids)))
			for _, id := range ids {
				putU32(id)
			}
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes produced by MarshalBinary.
// Entry codes are recovered from the stored buckets, not recomputed.
func (x *Index) UnmarshalBinary(data []byte) error {
	if !IsBlob(data) {
		return errors.New("lsh: invalid data: missing magic")
	}
	r := &reader{data: data, off: len(Magic)}
	if v := r.u32(); v != formatVersion && r.err == nil {
		return fmt.Errorf("lsh: unsupported format version %d", v)
	}
	dim, hashSize, tables, probeRadius := int(r.u32()), int(r.u32()), int(r.u32()), int(r.u32())
	if r.err != nil {
		return r.err
	}
	if dim <= 0 || hashSize < 1 || hashSize > MaxHashSize || tables < 1 || probeRadius > hashSize {
		return fmt.Errorf("lsh: invalid header dim=%d k=%d L=%d r=%d", dim, hashSize, tables, probeRadius)
	}
	rest := len(data) - r.off
	if dim > rest/4 || hashSize > rest/(4*dim) || tables > rest/(4*dim*hashSize) {
		return errTruncated
	}
	planes := make([][][]float32, tables)
	for t := range planes {
		planes[t] = make([][]float32, hashSize)
		for i := range planes[t] {
			planes[t][i] = r.f32s(dim)
		}
	}
	n := int(r.u32())
	entries := make([]vector.Entry, 0, min(n, len(data)))
	for i := 0; i < n && r.err == nil; i++ {
		label := r.bytes(int(r.u32()))
		vec := r.f32s(dim)
		entries = append(entries, vector.Entry{Label: string(label), Vector: vec})
	}
	if r.err != nil {
		return r.err
	}

	codes := make([][]uint64, n)
	for i := range codes {
		codes[i] = make([]uint64, tables)
	}
	buckets := make([]map[uint64][]uint32, tables)
	for t := range buckets {
		buckets[t] = make(map[uint64][]uint32)
		placed := 0
		nb := int(r.u32())
		for b := 0; b < nb && r.err == nil; b++ {
			code := r.u64()
			count := int(r.u32())
			if r.err != nil || !r.has(4*count) {
				return errTruncated
			}
			ids := make([]uint32, count)
			for j := range ids {
				id := r.u32()
				if int(id) >= n {
					return fmt.Errorf("lsh: bucket entry %d out of range [0,%d)", id, n)
				}
				ids[j] = id
				codes[id][t] = code
			}
			buckets[t][code] = ids
			placed += count
		}
		if r.err != nil {
			return r.err
		}
		if placed != n {
			return fmt.Errorf("lsh: table %d holds %d entries, want %d", t, placed, n)
		}
	}
	if r.off != len(data) {
		return fmt.Errorf("lsh: %d trailing bytes", len(data)-r.off)
	}

	x.dim = dim
	x.hashSize = hashSize
	x.probeRadius = probeRadius
	x.planes = planes
	x.entries = entries
	x.codes = codes
	x.tables = buckets
	return nil
}

// reader decodes little-endian values and latches the first truncation.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) has(n int) bool {
	return n >= 0 && r.off+n <= len(r.data)
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if !r.has(n) {
		r.err = errTruncated
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *reader) u64() uint64 {
	if b := r.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *reader) bytes(n int) []byte {
	return r.take(n)
}

func (r *reader) f32s(n int) []float32 {
	b := r.take(4 * n)
	if b == nil {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
