package skiplist

import (
	"cmp"
	"sync"
	"time"

	"github.com/ValentinKolb/sKV/lib/logging"
)

// autosaveSuffix is appended to the basename of periodic snapshots.
const autosaveSuffix = "_autosave"

// AutoSaver periodically snapshots one list to a timestamped JSON file
// until closed. It owns exactly one background worker; the zero value is
// not usable and an AutoSaver must not be copied.
type AutoSaver[K cmp.Ordered, V comparable] struct {
	list     *SkipList[K, V]
	codec    *Codec[K, V]
	basename string
	interval time.Duration

	stop     chan struct{}
	worker   sync.WaitGroup
	stopOnce sync.Once
}

// NewAutoSaver spawns the background worker. Every interval it writes a
// snapshot named <basename>_autosave_<timestamp>.json through the codec.
// Intervals below one second are raised to one second.
func NewAutoSaver[K cmp.Ordered, V comparable](list *SkipList[K, V], codec *Codec[K, V], basename string, interval time.Duration) *AutoSaver[K, V] {
	if interval < time.Second {
		interval = time.Second
	}

	a := &AutoSaver[K, V]{
		list:     list,
		codec:    codec,
		basename: basename,
		interval: interval,
		stop:     make(chan struct{}),
	}

	a.worker.Add(1)
	go a.run()
	return a
}

// run is the worker loop: sleep one interval, then either exit on the stop
// signal or write a snapshot. The select makes shutdown immediate instead
// of waiting out the remainder of an interval.
func (a *AutoSaver[K, V]) run() {
	defer a.worker.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			if _, err := a.codec.Save(a.list, a.basename+autosaveSuffix); err != nil {
				logging.Error().Str("autosave failed: ").Err(err).End()
			}
		}
	}
}

// Close signals the worker to stop and joins it. Close is idempotent.
func (a *AutoSaver[K, V]) Close() {
	a.stopOnce.Do(func() {
		close(a.stop)
	})
	a.worker.Wait()
}
