package logging

import (
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Fast decimal formatting
// --------------------------------------------------------------------------

// digitsTable holds the two-digit decimal expansions of 0..99. Integer and
// timestamp formatting take two decimal digits per table lookup, so the hot
// logging path needs half the divisions of a digit-by-digit loop.
const digitsTable = "00010203040506070809" +
	"10111213141516171819" +
	"20212223242526272829" +
	"30313233343536373839" +
	"40414243444546474849" +
	"50515253545556575859" +
	"60616263646566676869" +
	"70717273747576777879" +
	"80818283848586878889" +
	"90919293949596979899"

// appendUint appends the base-10 representation of v with minimal digits.
func appendUint(dst []byte, v uint64) []byte {
	var buf [20]byte
	p := len(buf)

	for v >= 100 {
		idx := (v % 100) * 2
		v /= 100
		p -= 2
		buf[p] = digitsTable[idx]
		buf[p+1] = digitsTable[idx+1]
	}

	if v < 10 {
		p--
		buf[p] = byte('0' + v)
	} else {
		idx := v * 2
		p -= 2
		buf[p] = digitsTable[idx]
		buf[p+1] = digitsTable[idx+1]
	}

	return append(dst, buf[p:]...)
}

// appendInt appends the base-10 representation of v, with a leading minus
// for negative values.
func appendInt(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		// negate via uint64 so math.MinInt64 does not overflow
		return appendUint(dst, uint64(-(v + 1))+1)
	}
	return appendUint(dst, uint64(v))
}

// appendUintWidth appends v zero-padded to exactly width digits.
// Values wider than width are truncated to their width least significant
// digits, matching fixed-width timestamp fields.
func appendUintWidth(dst []byte, v uint64, width int) []byte {
	var buf [20]byte
	p := len(buf)

	for v >= 100 {
		idx := (v % 100) * 2
		v /= 100
		p -= 2
		buf[p] = digitsTable[idx]
		buf[p+1] = digitsTable[idx+1]
	}
	if v < 10 {
		p--
		buf[p] = byte('0' + v)
	} else {
		idx := v * 2
		p -= 2
		buf[p] = digitsTable[idx]
		buf[p+1] = digitsTable[idx+1]
	}

	for n := len(buf) - p; n < width; n++ {
		dst = append(dst, '0')
	}
	if len(buf)-p > width {
		p = len(buf) - width
	}
	return append(dst, buf[p:]...)
}

// --------------------------------------------------------------------------
// RFC 3339 timestamps
// --------------------------------------------------------------------------

// Precision selects the sub-second resolution of a formatted timestamp.
type Precision int

const (
	PrecisionNone  Precision = 0
	PrecisionMilli Precision = 3
	PrecisionMicro Precision = 6
	PrecisionNano  Precision = 9
)

var (
	tzOnce   sync.Once
	tzOffset int    // seconds east of UTC
	tzName   string // zone abbreviation
)

// localZone returns the local zone abbreviation and its offset in seconds
// east of UTC. The values are resolved once and cached for the process
// lifetime. When the platform reports no zone name, the fixed fallback
// ("CST", +08:00) is used.
func localZone() (string, int) {
	tzOnce.Do(func() {
		name, off := time.Now().Zone()
		if name == "" {
			name, off = "CST", 8*3600
		}
		tzName, tzOffset = name, off
	})
	return tzName, tzOffset
}

// appendRFC3339 appends t as local-time RFC 3339, e.g.
// 2021-10-10T13:46:58.123+08:00, with the requested sub-second precision.
// A zero sub-second fraction is omitted, as is the fraction at
// PrecisionNone. A zero UTC offset is written as 'Z'.
func appendRFC3339(dst []byte, t time.Time, prec Precision) []byte {
	t = t.Local()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	dst = appendUintWidth(dst, uint64(year), 4)
	dst = append(dst, '-')
	dst = appendUintWidth(dst, uint64(month), 2)
	dst = append(dst, '-')
	dst = appendUintWidth(dst, uint64(day), 2)
	dst = append(dst, 'T')
	dst = appendUintWidth(dst, uint64(hour), 2)
	dst = append(dst, ':')
	dst = appendUintWidth(dst, uint64(min), 2)
	dst = append(dst, ':')
	dst = appendUintWidth(dst, uint64(sec), 2)

	if prec != PrecisionNone {
		frac := uint64(t.Nanosecond())
		switch prec {
		case PrecisionMilli:
			frac /= 1e6
		case PrecisionMicro:
			frac /= 1e3
		}
		if frac != 0 {
			dst = append(dst, '.')
			dst = appendUintWidth(dst, frac, int(prec))
		}
	}

	_, off := localZone()
	if off == 0 {
		return append(dst, 'Z')
	}
	if off < 0 {
		dst = append(dst, '-')
		off = -off
	} else {
		dst = append(dst, '+')
	}
	dst = appendUintWidth(dst, uint64(off/3600), 2)
	dst = append(dst, ':')
	dst = appendUintWidth(dst, uint64(off%3600/60), 2)
	return dst
}
