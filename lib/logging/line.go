package logging

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// --------------------------------------------------------------------------
// Call-site location
// --------------------------------------------------------------------------

// Loc identifies the call site of a log line. An empty Loc (Line == 0)
// suppresses the FILE:LINE field.
type Loc struct {
	File     string
	Function string
	Line     int
}

// Empty reports whether the location carries no call site.
func (l Loc) Empty() bool { return l.Line == 0 }

// here captures the call site skip frames above the caller.
func here(skip int) Loc {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Loc{}
	}
	fn := ""
	if f := runtime.FuncForPC(pc); f != nil {
		fn = f.Name()
	}
	return Loc{File: filepath.Base(file), Function: fn, Line: line}
}

// --------------------------------------------------------------------------
// Line assembly
// --------------------------------------------------------------------------

// Line assembles one log line in the calling goroutine's ring buffer. The
// constructor writes the metadata prefix (level tag, timestamp, TID and
// call site), the typed appenders add message fields, and End writes the
// trailing line feed and flushes the completed line to the sink.
//
// A Line below the configured level is inert: its appenders and End are
// no-ops. A Line must be finished with End on the goroutine that created
// it and must not be retained afterwards.
type Line struct {
	lg    *threadLogger
	count uint32
	level Level
}

// NewLine starts a log line with an explicit location. Pass an empty Loc to
// omit the FILE:LINE field.
func NewLine(level Level, loc Loc) *Line {
	if level < GetLevel() {
		return &Line{}
	}

	tid := goroutineID()
	l := &Line{lg: core.loggerFor(tid), level: level}

	var buf [64]byte
	b := append(buf[:0], level.Tag()...)
	b = append(b, ' ')
	b = appendRFC3339(b, time.Now(), PrecisionMilli)
	b = append(b, ' ')
	b = appendUint(b, tid)
	l.append(b)
	l.Location(loc)
	l.append([]byte{' '})
	return l
}

// Trace starts a trace-level line at the caller's location.
func Trace() *Line { return NewLine(LevelTrace, here(1)) }

// Debug starts a debug-level line at the caller's location.
func Debug() *Line { return NewLine(LevelDebug, here(1)) }

// Info starts an info-level line at the caller's location.
func Info() *Line { return NewLine(LevelInfo, here(1)) }

// Warn starts a warn-level line at the caller's location.
func Warn() *Line { return NewLine(LevelWarn, here(1)) }

// Error starts an error-level line at the caller's location.
func Error() *Line { return NewLine(LevelError, here(1)) }

// Fatal starts a fatal-level line at the caller's location. Ending a fatal
// line flushes it and aborts the process.
func Fatal() *Line { return NewLine(LevelFatal, here(1)) }

// append writes raw bytes into the goroutine's buffer and accounts them to
// this line.
func (l *Line) append(p []byte) {
	if l.lg == nil {
		return
	}
	l.lg.produce(p)
	l.count += uint32(len(p))
}

// Str appends a string field.
func (l *Line) Str(s string) *Line {
	if l.lg != nil {
		l.lg.produce([]byte(s))
		l.count += uint32(len(s))
	}
	return l
}

// Bytes appends a length-delimited raw UTF-8 field.
func (l *Line) Bytes(p []byte) *Line {
	l.append(p)
	return l
}

// Int appends a signed integer in base 10 with minimal digits.
func (l *Line) Int(v int64) *Line {
	if l.lg != nil {
		var buf [20]byte
		l.append(appendInt(buf[:0], v))
	}
	return l
}

// Uint appends an unsigned integer in base 10 with minimal digits.
func (l *Line) Uint(v uint64) *Line {
	if l.lg != nil {
		var buf [20]byte
		l.append(appendUint(buf[:0], v))
	}
	return l
}

// Bool appends true or false.
func (l *Line) Bool(v bool) *Line {
	if v {
		return l.Str("true")
	}
	return l.Str("false")
}

// Char appends a single byte.
func (l *Line) Char(c byte) *Line {
	l.append([]byte{c})
	return l
}

// Float32 appends v using the shortest representation that round-trips.
func (l *Line) Float32(v float32) *Line {
	if l.lg != nil {
		var buf [32]byte
		l.append(strconv.AppendFloat(buf[:0], float64(v), 'g', -1, 32))
	}
	return l
}

// Float64 appends v using the shortest representation that round-trips.
func (l *Line) Float64(v float64) *Line {
	if l.lg != nil {
		var buf [32]byte
		l.append(strconv.AppendFloat(buf[:0], v, 'g', -1, 64))
	}
	return l
}

// Err appends an error's message, or "<nil>" for a nil error.
func (l *Line) Err(err error) *Line {
	if err == nil {
		return l.Str("<nil>")
	}
	return l.Str(err.Error())
}

// Location appends " file:line" when the location is non-empty.
func (l *Line) Location(loc Loc) *Line {
	if l.lg == nil || loc.Empty() {
		return l
	}
	var buf [64]byte
	b := append(buf[:0], ' ')
	b = append(b, loc.File...)
	b = append(b, ':')
	b = appendInt(b, int64(loc.Line))
	l.append(b)
	return l
}

// End terminates the line: it writes the line feed, publishes the line and
// flushes the goroutine's buffer to its sink. Ending a fatal line aborts
// the process with a non-zero exit code.
func (l *Line) End() {
	if l.lg == nil {
		return
	}
	l.append([]byte{'\n'})
	l.lg.flush(l.count)
	l.lg = nil

	if l.level == LevelFatal {
		os.Exit(1)
	}
}
