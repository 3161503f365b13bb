package logging

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureSink returns a sink that records everything it receives.
func captureSink() (Sink, *bytes.Buffer) {
	var mu sync.Mutex
	buf := &bytes.Buffer{}
	return func(p []byte) int {
		mu.Lock()
		defer mu.Unlock()
		n, _ := buf.Write(p)
		return n
	}, buf
}

// linePattern matches LEVEL SP TIMESTAMP SP TID SP FILE:LINE SP MESSAGE LF.
var linePattern = regexp.MustCompile(
	`^(TRAC|DEBU|INFO|WARN|ERRO|FATA) ` +
		`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{3})?(Z|[+-]\d{2}:\d{2}) ` +
		`\d+ ` +
		`\S+\.go:\d+ ` +
		`.*\n$`)

func TestLineFormat(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink, buf := captureSink()
	SetSink(sink)

	Info().Str("inserted key ").Int(42).End()

	line := buf.String()
	require.Regexp(t, linePattern, line)
	require.True(t, strings.HasPrefix(line, "INFO "))
	require.Contains(t, line, "inserted key 42")
	require.Contains(t, line, "line_test.go:")
}

func TestLineFieldAppenders(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink, buf := captureSink()
	SetSink(sink)

	Info().
		Int(-7).Char(' ').
		Uint(18446744073709551615).Char(' ').
		Bool(true).Char(' ').
		Bool(false).Char(' ').
		Char('x').Char(' ').
		Float64(2.5).Char(' ').
		Float32(0.25).Char(' ').
		Bytes([]byte("raw")).
		End()

	require.Contains(t, buf.String(), "-7 18446744073709551615 true false x 2.5 0.25 raw")
}

func TestLineLevelGate(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink, buf := captureSink()
	SetSink(sink)
	SetLevel(LevelWarn)

	Debug().Str("below the gate").End()
	Info().Str("below the gate").End()
	require.Zero(t, buf.Len())

	Warn().Str("at the gate").End()
	require.Contains(t, buf.String(), "at the gate")
}

func TestLineWithoutLocation(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink, buf := captureSink()
	SetSink(sink)

	NewLine(LevelInfo, Loc{}).Str("no call site").End()

	require.Regexp(t,
		`^INFO \d{4}-\d{2}-\d{2}T[0-9:.]+(Z|[+-]\d{2}:\d{2}) \d+ no call site\n$`,
		buf.String())
}

func TestLinesFlushedInCallOrder(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink, buf := captureSink()
	SetSink(sink)

	for i := int64(0); i < 10; i++ {
		Info().Str("seq ").Int(i).End()
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	for i, line := range lines {
		require.Regexp(t, linePattern, line+"\n")
		require.Contains(t, line, "seq "+string(rune('0'+i)))
	}
}

func TestSetSinkOnlyAffectsCallerAndNewLoggers(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	otherSink, otherBuf := captureSink()

	// other goroutine installs otherSink before its first line, so its
	// logger is created bound to otherSink
	ready := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		SetSink(otherSink) // this goroutine's logger binds to otherSink
		Info().Str("first from other").End()
		close(ready)
		<-release
		// still bound to otherSink even though main swapped the default
		Info().Str("second from other").End()
	}()
	<-ready

	mainSink, mainBuf := captureSink()
	SetSink(mainSink)
	Info().Str("from main").End()

	close(release)
	<-done

	require.Contains(t, mainBuf.String(), "from main")
	require.NotContains(t, mainBuf.String(), "from other")
	require.Contains(t, otherBuf.String(), "first from other")
	require.Contains(t, otherBuf.String(), "second from other")
}

func TestConcurrentGoroutinesProduceWholeLines(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink, buf := captureSink()
	core.sink.Store(sink) // default for all newly created loggers

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				Info().Str("worker ").Int(int64(g)).Str(" op ").Int(int64(i)).End()
			}
		}(g)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 800)
	for _, line := range lines {
		require.Regexp(t, linePattern, line+"\n")
	}
}
