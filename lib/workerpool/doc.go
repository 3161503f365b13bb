// Package workerpool provides a fixed-size pool of worker goroutines that
// execute submitted task closures from a synchronized FIFO queue.
//
// The package focuses on:
//   - A bounded set of workers draining one shared queue (mutex + condition
//     variable, tasks run in submission order per producer)
//   - Cooperative shutdown: Close marks the pool as stopping, wakes every
//     waiting worker, lets the queue drain and joins all workers
//   - A reusable fan-in Barrier for callers that submit N tasks and need to
//     block until all N have completed
//
// The pool does not observe task results. Tasks that need to report back
// use their own channels, atomics or a Barrier. Tasks may run concurrently
// on distinct workers and must provide their own synchronization for shared
// state.
package workerpool
