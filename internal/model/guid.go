package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// globalIDChars is the IFC base-64 alphabet. It differs from RFC 4648.
const globalIDChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// NewGlobalID returns a fresh random IfcGloballyUniqueId.
func NewGlobalID() string {
	return CompressGUID(uuid.New())
}

// CompressGUID encodes a 128-bit UUID as the 22-character IFC form: the
// first byte as two characters, then five 3-byte groups as four each.
func CompressGUID(id uuid.UUID) string {
	var b strings.Builder
	b.Grow(22)
	writeBase64(&b, uint32(id[0]), 2)
	for i := 1; i < 16; i += 3 {
		v := uint32(id[i])<<16 | uint32(id[i+1])<<8 | uint32(id[i+2])
		writeBase64(&b, v, 4)
	}
	return b.String()
}

func writeBase64(b *strings.Builder, v uint32, digits int) {
	buf := make([]byte, digits)
	for i := digits - 1; i >= 0; i-- {
		buf[i] = globalIDChars[v%64]
		v /= 64
	}
	b.Write(buf)
}

// ExpandGUID decodes a 22-character IFC GlobalId back into a UUID.
func ExpandGUID(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if len(s) != 22 {
		return id, fmt.Errorf("global id %q has %d characters, want 22", s, len(s))
	}
	decode := func(part string) (uint32, error) {
		var v uint32
		for i := 0; i < len(part); i++ {
			idx := strings.IndexByte(globalIDChars, part[i])
			if idx < 0 {
				return 0, fmt.Errorf("global id %q has invalid character %q", s, part[i])
			}
			v = v*64 + uint32(idx)
		}
		return v, nil
	}

	first, err := decode(s[:2])
	if err != nil {
		return id, err
	}
	if first > 0xff {
		return id, fmt.Errorf("global id %q is out of range", s)
	}
	id[0] = byte(first)
	for g := 0; g < 5; g++ {
		v, err := decode(s[2+4*g : 6+4*g])
		if err != nil {
			return id, err
		}
		id[1+3*g] = byte(v >> 16)
		id[2+3*g] = byte(v >> 8)
		id[3+3*g] = byte(v)
	}
	return id, nil
}
