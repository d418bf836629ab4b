/************************************************************************************
 *
 * corvid, a Go client library for the Discord API
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 the corvid authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package corvid

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
)

// External Term Format (v131) tags used by Discord's gateway, mirroring
// the constant table in dpp's etf.cpp (erlpack). Discord never sends a
// term tag outside this set.
const (
	etfVersion          = 131
	etfNewFloatExt      = 70
	etfSmallIntegerExt  = 97
	etfIntegerExt       = 98
	etfFloatExt         = 99
	etfAtomExt          = 100
	etfSmallTupleExt    = 104
	etfLargeTupleExt    = 105
	etfNilExt           = 106
	etfStringExt        = 107
	etfListExt          = 108
	etfBinaryExt        = 109
	etfSmallBigExt      = 110
	etfLargeBigExt      = 111
	etfNewReferenceExt  = 114
	etfSmallAtomExt     = 115
	etfMapExt           = 116
	etfAtomUtf8Ext      = 118
	etfSmallAtomUtf8Ext = 119
)

// etfDecoder reads ETF terms from a byte buffer, tracking an offset the
// way etf_parser does in the reference implementation.
type etfDecoder struct {
	data   []byte
	offset int
}

func etfUnmarshal(data []byte, v any) error {
	d := &etfDecoder{data: data}
	if len(d.data) == 0 || d.data[0] != etfVersion {
		return &ProtocolError{Reason: "etf: missing version byte"}
	}
	d.offset = 1

	term, err := d.decodeTerm()
	if err != nil {
		return err
	}

	// Re-use sonic's struct-tag-aware assignment by round-tripping through
	// its generic map/slice representation rather than hand-writing
	// reflection-based struct population.
	intermediate, err := sonic.Marshal(term)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(intermediate, v)
}

func (d *etfDecoder) byte() byte {
	if d.offset >= len(d.data) {
		return 0
	}
	b := d.data[d.offset]
	d.offset++
	return b
}

func (d *etfDecoder) bytes(n int) []byte {
	if d.offset+n > len(d.data) {
		n = len(d.data) - d.offset
		if n < 0 {
			n = 0
		}
	}
	b := d.data[d.offset : d.offset+n]
	d.offset += n
	return b
}

func (d *etfDecoder) uint16() uint16 {
	return binary.BigEndian.Uint16(d.bytes(2))
}

func (d *etfDecoder) uint32() uint32 {
	return binary.BigEndian.Uint32(d.bytes(4))
}

func (d *etfDecoder) decodeTerm() (any, error) {
	tag := d.byte()
	switch tag {
	case etfSmallIntegerExt:
		return int64(d.byte()), nil
	case etfIntegerExt:
		return int64(int32(d.uint32())), nil
	case etfNewFloatExt:
		bits := binary.BigEndian.Uint64(d.bytes(8))
		return math.Float64frombits(bits), nil
	case etfFloatExt:
		raw := d.bytes(31)
		return parseFloatString(raw), nil
	case etfAtomExt, etfAtomUtf8Ext:
		n := int(d.uint16())
		return decodeAtom(string(d.bytes(n))), nil
	case etfSmallAtomExt, etfSmallAtomUtf8Ext:
		n := int(d.byte())
		return decodeAtom(string(d.bytes(n))), nil
	case etfStringExt:
		n := int(d.uint16())
		return string(d.bytes(n)), nil
	case etfBinaryExt:
		n := int(d.uint32())
		return string(d.bytes(n)), nil
	case etfSmallBigExt:
		return d.decodeBig(int(d.byte())), nil
	case etfLargeBigExt:
		return d.decodeBig(int(d.uint32())), nil
	case etfNilExt:
		return []any{}, nil
	case etfListExt:
		n := int(d.uint32())
		items := make([]any, 0, n)
		for i := 0; i < n; i++ {
			item, err := d.decodeTerm()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		d.byte() // discard list tail (always NIL_EXT for Discord payloads)
		return items, nil
	case etfSmallTupleExt, etfLargeTupleExt:
		var n int
		if tag == etfSmallTupleExt {
			n = int(d.byte())
		} else {
			n = int(d.uint32())
		}
		items := make([]any, 0, n)
		for i := 0; i < n; i++ {
			item, err := d.decodeTerm()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case etfMapExt:
		n := int(d.uint32())
		m := make(map[string]any, n)
		for i := 0; i < n; i++ {
			key, err := d.decodeTerm()
			if err != nil {
				return nil, err
			}
			val, err := d.decodeTerm()
			if err != nil {
				return nil, err
			}
			if ks, ok := key.(string); ok {
				m[ks] = val
			}
		}
		return m, nil
	case etfNewReferenceExt:
		n := int(d.uint16())
		d.decodeTerm() // node atom
		d.byte()       // creation
		d.bytes(n * 4)
		return nil, nil
	default:
		return nil, &ProtocolError{Reason: "etf: unsupported term tag"}
	}
}

// decodeBig decodes SMALL_BIG_EXT/LARGE_BIG_EXT as a decimal string rather
// than a numeric Go type. Discord's big-ext terms are how every snowflake
// and other 64-bit ID crosses the gateway in ETF mode, and Snowflake's
// UnmarshalJSON only ever accepts a quoted JSON string (the same shape the
// JSON encoding sends); returning a bare number here would round-trip
// through sonic.Marshal as an unquoted JSON number and fail to decode.
func (d *etfDecoder) decodeBig(n int) string {
	sign := d.byte()
	digits := d.bytes(n)
	var v uint64
	for i := len(digits) - 1; i >= 0; i-- {
		v = (v << 8) | uint64(digits[i])
	}
	if sign != 0 {
		return "-" + strconv.FormatUint(v, 10)
	}
	return strconv.FormatUint(v, 10)
}

func decodeAtom(name string) any {
	switch name {
	case "nil":
		return nil
	case "true":
		return true
	case "false":
		return false
	default:
		return name
	}
}

// parseFloatString decodes the legacy FLOAT_EXT tag (a fixed 31-byte
// "%.20e"-formatted string, NUL-padded), superseded by NEW_FLOAT_EXT and
// never actually sent by Discord's gateway, kept for completeness per the
// term-tag table.
func parseFloatString(raw []byte) float64 {
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	f, _ := strconv.ParseFloat(string(raw[:n]), 64)
	return f
}

// etfEncoder builds an ETF term buffer, mirroring erlpack_buffer_write's
// append-and-grow discipline from the reference implementation.
type etfEncoder struct {
	buf []byte
}

func etfMarshal(v any) ([]byte, error) {
	// Round-trip through sonic's generic decoding so arbitrary Go values
	// (structs, maps, slices) land in the same map[string]any/[]any/
	// scalar shape the term encoder below understands, matching how the
	// JSON codec already treats v.
	intermediate, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := sonic.Unmarshal(intermediate, &generic); err != nil {
		return nil, err
	}

	e := &etfEncoder{buf: make([]byte, 0, 128)}
	e.buf = append(e.buf, etfVersion)
	e.encodeTerm(generic)
	return e.buf, nil
}

func (e *etfEncoder) encodeTerm(v any) {
	switch val := v.(type) {
	case nil:
		e.encodeAtom("nil")
	case bool:
		if val {
			e.encodeAtom("true")
		} else {
			e.encodeAtom("false")
		}
	case string:
		e.encodeBinary(val)
	case float64:
		e.encodeFloat(val)
	case int:
		e.encodeInt(int64(val))
	case int64:
		e.encodeInt(val)
	case []any:
		e.encodeList(val)
	case map[string]any:
		e.encodeMap(val)
	default:
		e.encodeAtom("nil")
	}
}

func (e *etfEncoder) encodeAtom(name string) {
	e.buf = append(e.buf, etfSmallAtomUtf8Ext, byte(len(name)))
	e.buf = append(e.buf, name...)
}

func (e *etfEncoder) encodeBinary(s string) {
	var hdr [5]byte
	hdr[0] = etfBinaryExt
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(s)))
	e.buf = append(e.buf, hdr[:]...)
	e.buf = append(e.buf, s...)
}

func (e *etfEncoder) encodeFloat(f float64) {
	var buf [9]byte
	buf[0] = etfNewFloatExt
	binary.BigEndian.PutUint64(buf[1:], math.Float64bits(f))
	e.buf = append(e.buf, buf[:]...)
}

func (e *etfEncoder) encodeInt(n int64) {
	if n >= 0 && n <= math.MaxUint8 {
		e.buf = append(e.buf, etfSmallIntegerExt, byte(n))
		return
	}
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		var buf [5]byte
		buf[0] = etfIntegerExt
		binary.BigEndian.PutUint32(buf[1:], uint32(int32(n)))
		e.buf = append(e.buf, buf[:]...)
		return
	}

	sign := byte(0)
	u := uint64(n)
	if n < 0 {
		sign = 1
		u = uint64(-n)
	}
	var digits []byte
	for u > 0 {
		digits = append(digits, byte(u&0xFF))
		u >>= 8
	}
	e.buf = append(e.buf, etfSmallBigExt, byte(len(digits)), sign)
	e.buf = append(e.buf, digits...)
}

func (e *etfEncoder) encodeList(items []any) {
	if len(items) == 0 {
		e.buf = append(e.buf, etfNilExt)
		return
	}
	var hdr [5]byte
	hdr[0] = etfListExt
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(items)))
	e.buf = append(e.buf, hdr[:]...)
	for _, item := range items {
		e.encodeTerm(item)
	}
	e.buf = append(e.buf, etfNilExt)
}

func (e *etfEncoder) encodeMap(m map[string]any) {
	var hdr [5]byte
	hdr[0] = etfMapExt
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(m)))
	e.buf = append(e.buf, hdr[:]...)
	for k, v := range m {
		e.encodeBinary(k)
		e.encodeTerm(v)
	}
}
