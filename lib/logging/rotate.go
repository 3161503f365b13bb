package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Rotating file sink
// --------------------------------------------------------------------------

const (
	defaultMaxFileSize = 10 << 20 // 10 MiB
	logFilePrefix      = "logfile_"
	logFileExt         = ".txt"
)

// RotateOptions configures a RotatingFileSink.
type RotateOptions struct {
	Dir         string // log directory (created if missing)
	MaxFileSize int64  // rotate when a file would grow to this size (0 = 10 MiB)
}

// DefaultRotateOptions returns the default rotating sink options.
func DefaultRotateOptions() *RotateOptions {
	return &RotateOptions{
		Dir:         "log",
		MaxFileSize: defaultMaxFileSize,
	}
}

// RotatingFileSink appends log regions to logfile_YYYYMMDD.txt inside a
// directory, rolling the file over when a write would reach the size limit or
// when the local calendar day changes. A rotated file is renamed to
// logfile_YYYYMMDD_HHMMSS.txt using the current local time.
//
// All writes go through an internal mutex, so the sink may be shared by
// several per-goroutine loggers.
type RotatingFileSink struct {
	mu sync.Mutex

	dir     string
	maxSize int64

	file     *os.File
	written  int64
	lastDate string // YYYYMMDD of the open file
}

// NewRotatingFileSink creates a rotating file sink with the given options
// (nil = defaults). The directory is created on first write.
func NewRotatingFileSink(opts *RotateOptions) *RotatingFileSink {
	if opts == nil {
		opts = DefaultRotateOptions()
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}
	dir := opts.Dir
	if dir == "" {
		dir = DefaultRotateOptions().Dir
	}
	return &RotatingFileSink{
		dir:     dir,
		maxSize: maxSize,
	}
}

// Sink returns the Sink function bound to this rotating file.
func (s *RotatingFileSink) Sink() Sink { return s.write }

// Close closes the currently open log file, if any.
func (s *RotatingFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// write appends p to the active file, rotating first when required. On any
// I/O failure the payload is re-emitted to stderr and -1 is returned; the
// caller is never aborted.
func (s *RotatingFileSink) write(p []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureFile(int64(len(p))); err != nil {
		return s.fail(p, err)
	}

	n, err := s.file.Write(p)
	if err != nil {
		return s.fail(p, err)
	}
	s.written += int64(n)
	return n
}

// ensureFile opens or rotates the active file so that n more bytes can be
// written. Rotation triggers: no file open, local-date change since the
// last write, or the file reaching the size limit with this write.
func (s *RotatingFileSink) ensureFile(n int64) error {
	today := localDate(time.Now())

	switch {
	case s.file == nil:
		return s.open(today)
	case s.lastDate != today:
		return s.rotate(today)
	case s.written > 0 && s.written+n >= s.maxSize:
		return s.rotate(today)
	}
	return nil
}

// open opens (or creates) the active file for the given date in append
// mode. Bytes already present count towards the size limit.
func (s *RotatingFileSink) open(date string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(s.dir, logFilePrefix+date+logFileExt)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	s.file = f
	s.written = info.Size()
	s.lastDate = date
	return nil
}

// rotate closes the active file, renames it with an HHMMSS suffix and opens
// a fresh file for the given date.
func (s *RotatingFileSink) rotate(date string) error {
	oldPath := filepath.Join(s.dir, logFilePrefix+s.lastDate+logFileExt)
	newPath := filepath.Join(s.dir, logFilePrefix+s.lastDate+"_"+localClock(time.Now())+logFileExt)

	if err := s.file.Close(); err != nil {
		s.file = nil
		return err
	}
	s.file = nil

	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}
	return s.open(date)
}

// fail reports a sink failure: the payload goes to stderr so the line is
// not lost, and the error is noted alongside it.
func (s *RotatingFileSink) fail(p []byte, err error) int {
	fmt.Fprintf(os.Stderr, "logging: rotating sink error: %v\n", err)
	os.Stderr.Write(p)
	return -1
}

// localDate formats t as YYYYMMDD in local time.
func localDate(t time.Time) string {
	t = t.Local()
	year, month, day := t.Date()
	b := make([]byte, 0, 8)
	b = appendUintWidth(b, uint64(year), 4)
	b = appendUintWidth(b, uint64(month), 2)
	b = appendUintWidth(b, uint64(day), 2)
	return string(b)
}

// localClock formats t as HHMMSS in local time.
func localClock(t time.Time) string {
	t = t.Local()
	hour, min, sec := t.Clock()
	b := make([]byte, 0, 6)
	b = appendUintWidth(b, uint64(hour), 2)
	b = appendUintWidth(b, uint64(min), 2)
	b = appendUintWidth(b, uint64(sec), 2)
	return string(b)
}
