// Package clarity decodes hex-encoded contract event values into generic
// key-value structures. Vendors sometimes deliver event data already decoded
// as JSON text and sometimes as the compact binary tuple encoding; this
// package handles both and never fails hard: on any malformed input it
// returns whatever could be decoded, falling back to the raw hex string.
package clarity

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/sugawarayuuta/sonnet"
)

// Value type tags used by the binary tuple encoding.
const (
	tagInt         = 0x00
	tagUint        = 0x01
	tagPrincipal   = 0x05
	tagTuple       = 0x0c
	tagStringASCII = 0x0d
	tagStringUTF8  = 0x0e
)

const (
	intWidth       = 16
	principalWidth = 21
)

// Decode turns a hex-encoded event value into a key-value map.
//
// The input may carry an optional 0x prefix. If the bytes parse as a JSON
// object they are returned as-is (the vendor pre-decoded the value). If the
// bytes start with the tuple marker, the binary layout is walked field by
// field; a truncated or unrecognized field ends the walk and the fields
// decoded so far are returned. Anything else yields {"raw": <input>}.
func Decode(value string) map[string]any {
	raw, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
	if err != nil {
		return rawFallback(value)
	}

	var parsed map[string]any
	if err := sonnet.Unmarshal(raw, &parsed); err == nil {
		return parsed
	}

	if len(raw) == 0 || raw[0] != tagTuple {
		return rawFallback(value)
	}
	return decodeTuple(raw)
}

// decodeTuple walks the binary layout: 1-byte tuple tag, 2-byte declared
// entry count, then per field a 2-byte big-endian key length, the key bytes,
// a 1-byte value tag and the tag-specific value bytes.
func decodeTuple(raw []byte) map[string]any {
	fields := map[string]any{}
	cursor := 3

	for cursor < len(raw) {
		if cursor+2 > len(raw) {
			break
		}
		keyLen := int(binary.BigEndian.Uint16(raw[cursor:]))
		cursor += 2
		if cursor+keyLen > len(raw) {
			break
		}
		key := string(raw[cursor : cursor+keyLen])
		cursor += keyLen

		if cursor >= len(raw) {
			break
		}
		tag := raw[cursor]
		cursor++

		value, next, ok := decodeValue(raw, cursor, tag)
		if !ok {
			break
		}
		fields[key] = value
		cursor = next
	}

	return fields
}

func decodeValue(raw []byte, cursor int, tag byte) (any, int, bool) {
	switch tag {
	case tagInt, tagUint:
		if cursor+intWidth > len(raw) {
			return nil, 0, false
		}
		// 128-bit on the wire; only the low 64 bits are preserved. Values
		// in this domain stay far below 2^64.
		magnitude := binary.BigEndian.Uint64(raw[cursor+8 : cursor+intWidth])
		return strconv.FormatUint(magnitude, 10), cursor + intWidth, true
	case tagStringASCII, tagStringUTF8:
		if cursor+2 > len(raw) {
			return nil, 0, false
		}
		strLen := int(binary.BigEndian.Uint16(raw[cursor:]))
		cursor += 2
		if cursor+strLen > len(raw) {
			return nil, 0, false
		}
		return string(raw[cursor : cursor+strLen]), cursor + strLen, true
	case tagPrincipal:
		if cursor+principalWidth > len(raw) {
			return nil, 0, false
		}
		return "0x" + hex.EncodeToString(raw[cursor:cursor+principalWidth]), cursor + principalWidth, true
	default:
		return nil, 0, false
	}
}

func rawFallback(value string) map[string]any {
	return map[string]any{"raw": value}
}
