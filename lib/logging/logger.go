package logging

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Per-goroutine logger
// --------------------------------------------------------------------------

// threadLogger pairs the ring buffer of one goroutine with its output sink.
// It is created lazily on the goroutine's first log call and never shared:
// the owning goroutine is both producer and consumer of the buffer.
type threadLogger struct {
	buf     *ringBuffer
	sink    Sink
	scratch []byte
}

func newThreadLogger(sink Sink) *threadLogger {
	return &threadLogger{
		buf:     &ringBuffer{},
		sink:    sink,
		scratch: make([]byte, 4096),
	}
}

// produce appends line bytes to the goroutine's buffer.
func (l *threadLogger) produce(p []byte) {
	l.buf.produce(p)
}

// flush publishes the n bytes of the completed line, hands the whole ready
// region to the sink in one call and rewinds the buffer.
func (l *threadLogger) flush(n uint32) {
	l.buf.incConsumable(n)

	ready := l.buf.consumable()
	if uint32(len(l.scratch)) < ready {
		l.scratch = make([]byte, ready)
	}
	m := l.buf.consume(l.scratch[:ready])
	l.sink(l.scratch[:m])

	l.buf.reset()
}

// --------------------------------------------------------------------------
// Process-global core
// --------------------------------------------------------------------------

// core is the process-global logging state: the level gate, the default
// sink handed to newly created per-goroutine loggers, and the registry of
// loggers created so far.
type loggingCore struct {
	level   atomic.Int32
	sink    atomic.Value // Sink
	loggers *xsync.MapOf[uint64, *threadLogger]
}

var core = newCore()

func newCore() *loggingCore {
	c := &loggingCore{
		loggers: xsync.NewMapOf[uint64, *threadLogger](),
	}
	c.level.Store(int32(LevelInfo))
	c.sink.Store(Sink(StdoutSink))
	return c
}

// SetLevel sets the process-global level gate.
func SetLevel(l Level) { core.level.Store(int32(l)) }

// GetLevel returns the process-global level gate.
func GetLevel() Level { return Level(core.level.Load()) }

// SetSink replaces the default sink for per-goroutine loggers created from
// now on. The calling goroutine's existing logger, if any, is switched as
// well; loggers already owned by other goroutines keep their current sink.
func SetSink(s Sink) {
	core.sink.Store(s)
	if l, ok := core.loggers.Load(goroutineID()); ok {
		l.sink = s
	}
}

// produce routes line bytes to the calling goroutine's logger, creating and
// registering it on first use.
func (c *loggingCore) produce(p []byte) {
	c.logger().produce(p)
}

// flush routes an end-of-line flush to the calling goroutine's logger.
func (c *loggingCore) flush(n uint32) {
	c.logger().flush(n)
}

// logger returns the calling goroutine's logger, creating it under the
// registry's internal synchronization when absent.
func (c *loggingCore) logger() *threadLogger {
	return c.loggerFor(goroutineID())
}

// loggerFor returns the logger registered under the given goroutine id,
// creating it when absent.
func (c *loggingCore) loggerFor(id uint64) *threadLogger {
	l, _ := c.loggers.LoadOrCompute(id, func() *threadLogger {
		return newThreadLogger(c.sink.Load().(Sink))
	})
	return l
}

// ResetForTest drops all registered per-goroutine loggers and restores the
// default level and sink. Intended for tests only.
func ResetForTest() {
	core.loggers.Clear()
	core.level.Store(int32(LevelInfo))
	core.sink.Store(Sink(StdoutSink))
}

// --------------------------------------------------------------------------
// Goroutine identity
// --------------------------------------------------------------------------

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the numeric goroutine id out of the runtime.Stack
// header. The id is stable for the lifetime of the goroutine and serves as
// both the registry key and the TID field of log lines.
func goroutineID() uint64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	s := buf[:n]

	s = bytes.TrimPrefix(s, goroutinePrefix)
	if i := bytes.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	id, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
