package logging

import (
	"runtime"
	"sync/atomic"
)

// bufferSize is the capacity of a per-goroutine ring buffer. Must be a
// power of two so positions can be mapped with a mask instead of a modulo.
const bufferSize = 1 << 20 // 1 MiB

// ringBuffer is a bounded FIFO byte queue with separate produce, consume
// and consumable cursors. The cursors are free-running uint32 counters that
// may wrap; pos & (bufferSize-1) locates the byte in storage. The invariant
// consumePos <= consumablePos <= producePos always holds, with
// producePos - consumePos <= bufferSize.
//
// The consumable cursor is only advanced when a complete log line has been
// written, so a consumer never observes a partial line. The cursor fields
// use atomic loads and stores so the buffer stays safe if producer and
// consumer ever run on different goroutines; in the synchronous logger both
// roles belong to the same goroutine.
type ringBuffer struct {
	producePos    atomic.Uint32
	consumePos    atomic.Uint32
	consumablePos atomic.Uint32
	storage       [bufferSize]byte
}

// size returns the buffer capacity in bytes.
func (b *ringBuffer) size() uint32 { return bufferSize }

// used returns the number of produced but not yet consumed bytes.
func (b *ringBuffer) used() uint32 {
	return b.producePos.Load() - b.consumePos.Load()
}

// unused returns the number of bytes that can be produced without blocking.
func (b *ringBuffer) unused() uint32 { return bufferSize - b.used() }

// consumable returns the number of bytes that belong to completed lines and
// are ready for consumption.
func (b *ringBuffer) consumable() uint32 {
	return b.consumablePos.Load() - b.consumePos.Load()
}

// produce copies p into the buffer, spinning while there is not enough free
// space. Payloads larger than the buffer are truncated to its capacity.
//
// The spin is safe only because the owning goroutine flushes the buffer
// synchronously at end-of-line; an asynchronous consumer would have to
// replace it with blocking or backpressure.
func (b *ringBuffer) produce(p []byte) {
	n := uint32(len(p))
	if n > bufferSize {
		n = bufferSize
		p = p[:n]
	}

	for b.unused() < n {
		runtime.Gosched()
	}

	pos := b.producePos.Load() & (bufferSize - 1)
	toEnd := bufferSize - pos
	if toEnd > n {
		toEnd = n
	}
	copy(b.storage[pos:], p[:toEnd])
	copy(b.storage[:], p[toEnd:])

	b.producePos.Add(n)
}

// incConsumable publishes n more bytes (one completed line) to the consumer.
func (b *ringBuffer) incConsumable(n uint32) {
	b.consumablePos.Add(n)
}

// consume copies up to len(to) ready bytes into to and returns the number
// copied.
func (b *ringBuffer) consume(to []byte) uint32 {
	avail := b.consumable()
	if n := uint32(len(to)); avail > n {
		avail = n
	}

	pos := b.consumePos.Load() & (bufferSize - 1)
	toEnd := bufferSize - pos
	if toEnd > avail {
		toEnd = avail
	}
	copy(to, b.storage[pos:pos+toEnd])
	copy(to[toEnd:avail], b.storage[:avail-toEnd])

	b.consumePos.Add(avail)
	return avail
}

// reset rewinds all three cursors to zero. Called after a successful flush
// so every line starts at the front of the storage.
func (b *ringBuffer) reset() {
	b.producePos.Store(0)
	b.consumePos.Store(0)
	b.consumablePos.Store(0)
}
