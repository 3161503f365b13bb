package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBufferFIFO verifies bytes come back out in production order.
func TestBufferFIFO(t *testing.T) {
	b := &ringBuffer{}

	b.produce([]byte("hello "))
	b.produce([]byte("world"))
	b.incConsumable(11)

	out := make([]byte, 64)
	n := b.consume(out)
	require.Equal(t, uint32(11), n)
	require.Equal(t, "hello world", string(out[:n]))
}

// TestBufferPartialLinesInvisible verifies a consumer only ever sees bytes
// behind the consumable cursor.
func TestBufferPartialLinesInvisible(t *testing.T) {
	b := &ringBuffer{}

	b.produce([]byte("incomplete line"))
	require.Equal(t, uint32(0), b.consumable())

	out := make([]byte, 64)
	require.Equal(t, uint32(0), b.consume(out))

	// publishing the line makes it visible in full
	b.incConsumable(15)
	require.Equal(t, uint32(15), b.consumable())
	n := b.consume(out)
	require.Equal(t, "incomplete line", string(out[:n]))
}

// TestBufferWraparound drives the cursors past the end of storage and
// verifies the copy is stitched correctly across the boundary.
func TestBufferWraparound(t *testing.T) {
	b := &ringBuffer{}

	// position the cursors near the end of storage
	pad := make([]byte, bufferSize-8)
	b.produce(pad)
	b.incConsumable(uint32(len(pad)))
	b.consume(pad)

	payload := []byte("0123456789abcdef") // straddles the boundary
	b.produce(payload)
	b.incConsumable(uint32(len(payload)))

	out := make([]byte, 64)
	n := b.consume(out)
	require.Equal(t, payload, out[:n])
}

// TestBufferConsumeLimit verifies consume honors the destination size.
func TestBufferConsumeLimit(t *testing.T) {
	b := &ringBuffer{}

	b.produce([]byte("abcdefgh"))
	b.incConsumable(8)

	out := make([]byte, 3)
	require.Equal(t, uint32(3), b.consume(out))
	require.Equal(t, "abc", string(out))

	rest := make([]byte, 8)
	n := b.consume(rest)
	require.Equal(t, "defgh", string(rest[:n]))
}

// TestBufferReset verifies reset rewinds all three cursors.
func TestBufferReset(t *testing.T) {
	b := &ringBuffer{}

	b.produce([]byte("data"))
	b.incConsumable(4)
	b.reset()

	require.Equal(t, uint32(0), b.used())
	require.Equal(t, uint32(0), b.consumable())
	require.Equal(t, uint32(0), b.producePos.Load())
}

// TestBufferInterleavedLines mimics the synchronous logger cycle: produce,
// publish, consume, reset, many times over.
func TestBufferInterleavedLines(t *testing.T) {
	b := &ringBuffer{}
	var got bytes.Buffer
	out := make([]byte, 256)

	for i := 0; i < 1000; i++ {
		line := []byte("line payload with some width\n")
		b.produce(line)
		b.incConsumable(uint32(len(line)))
		n := b.consume(out)
		got.Write(out[:n])
		b.reset()
	}

	require.Equal(t, 1000*29, got.Len())
}
