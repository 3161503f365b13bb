package bench

import (
	"fmt"
	"io"
	"runtime"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"

	"github.com/ValentinKolb/sKV/lib/logging"
	"github.com/ValentinKolb/sKV/lib/skiplist"
	"github.com/ValentinKolb/sKV/lib/workerpool"
)

const (
	// latencySampleEvery bounds the timing overhead: one in this many
	// operations is individually timed for the histogram.
	latencySampleEvery = 128

	// progressBatch is how many operations a worker accumulates before
	// advancing the progress bar.
	progressBatch = 1024

	benchValue = "a"
)

// Options configures one benchmark run.
type Options struct {
	Threads        int  // worker count (0 = GOMAXPROCS)
	DataNum        int  // operations per phase
	MaxLevel       int  // skip list max level
	UseProgressBar bool // render a progress bar during each phase
	UseRandRNG     bool // use the standard library RNG instead of xorshift64
}

func (o *Options) normalize() {
	if o.Threads < 1 {
		o.Threads = runtime.GOMAXPROCS(0)
	}
	if o.DataNum < 1 {
		o.DataNum = 1_000_000
	}
	if o.MaxLevel < 1 {
		o.MaxLevel = 18
	}
}

// Result summarizes one benchmark phase.
type Result struct {
	Name       string
	Ops        int
	Elapsed    time.Duration
	QPS        float64
	AvgLatency time.Duration
	P99Latency time.Duration
}

// Run executes the insert phase followed by the search phase against a
// fresh index and writes a human-readable summary per phase to w.
func Run(w io.Writer, opts Options) []Result {
	opts.normalize()

	logging.Info().
		Str("benchmark starting: threads ").Int(int64(opts.Threads)).
		Str(" ops ").Int(int64(opts.DataNum)).
		Str(" max level ").Int(int64(opts.MaxLevel)).
		End()

	list := skiplist.New[int64, string](opts.MaxLevel)
	if list.Size() > 0 {
		logging.Warn().Str("benchmark list not empty, clearing").End()
		list.Clear()
	}

	bound := int64(opts.DataNum)
	results := []Result{
		runPhase(w, "insert", opts, func(ks KeySource) {
			list.Insert(ks.Next(bound), benchValue)
		}),
		runPhase(w, "search", opts, func(ks KeySource) {
			list.Search(ks.Next(bound))
		}),
	}

	logging.Info().Str("benchmark finished: index holds ").Uint(list.Size()).Str(" elements").End()
	return results
}

// runPhase splits opts.DataNum operations across a worker pool, blocks on
// the fan-in barrier until every worker is done and reports throughput.
func runPhase(w io.Writer, name string, opts Options, op func(ks KeySource)) Result {
	pool := workerpool.New(opts.Threads)
	defer pool.Close()

	barrier := workerpool.NewBarrier(uint64(opts.Threads))
	hist := NewLatencyHistogram()

	var bar *ProgressBar
	if opts.UseProgressBar {
		bar = NewProgressBar(w, uint64(opts.DataNum))
	}

	meter := gometrics.GetOrRegisterMeter("skv.bench."+name, nil)
	counter := vmetrics.GetOrCreateCounter(fmt.Sprintf(`skv_bench_ops_total{op=%q}`, name))

	perWorker := opts.DataNum / opts.Threads
	remainder := opts.DataNum % opts.Threads
	totalOps := 0

	start := time.Now()
	for t := 0; t < opts.Threads; t++ {
		ops := perWorker
		if t < remainder {
			ops++
		}
		totalOps += ops

		if err := pool.Submit(func() {
			defer barrier.Done()

			ks := NewKeySource(opts.UseRandRNG)
			sinceBar := 0
			for i := 0; i < ops; i++ {
				if i%latencySampleEvery == 0 {
					opStart := time.Now()
					op(ks)
					hist.AddSample(time.Since(opStart))
				} else {
					op(ks)
				}

				if bar != nil {
					if sinceBar++; sinceBar == progressBatch {
						bar.Add(progressBatch)
						sinceBar = 0
					}
				}
			}
			if bar != nil && sinceBar > 0 {
				bar.Add(uint64(sinceBar))
			}

			meter.Mark(int64(ops))
			counter.Add(ops)
		}); err != nil {
			logging.Error().Str("benchmark task rejected: ").Err(err).End()
			barrier.Done()
		}
	}

	barrier.Wait()
	elapsed := time.Since(start)

	if bar != nil {
		bar.Finish()
	}

	result := Result{
		Name:       name,
		Ops:        totalOps,
		Elapsed:    elapsed,
		QPS:        float64(totalOps) / elapsed.Seconds(),
		AvgLatency: hist.Average(),
		P99Latency: hist.PercentileEstimate(99),
	}

	fmt.Fprintf(w, "%s elapsed: %.3fs\n", result.Name, result.Elapsed.Seconds())
	fmt.Fprintf(w, "%s QPS: %.0f ops/s (avg latency %v, p99 %v)\n",
		result.Name, result.QPS, result.AvgLatency, result.P99Latency)

	logging.Info().
		Str("phase ").Str(name).
		Str(" done: ").Int(int64(totalOps)).
		Str(" ops in ").Str(elapsed.String()).
		End()
	return result
}

// DumpMetrics writes every process-wide benchmark counter in Prometheus
// text format.
func DumpMetrics(w io.Writer) {
	vmetrics.WritePrometheus(w, false)
}
