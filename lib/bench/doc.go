// Package bench drives synthetic insert and search workloads against the
// ordered index through a worker pool and reports throughput.
//
// The package focuses on:
//   - Phase runners that split a target operation count across the pool's
//     workers and block on a fan-in barrier until every worker is done
//   - Per-worker pseudo-random key sources (xorshift64 or the standard
//     library generator, selected by the useRandRNG config toggle)
//   - Throughput accounting: wall-clock QPS per phase, rolling rates via
//     go-metrics meters, and process-wide operation counters exported in
//     Prometheus text format
//   - An optional terminal progress bar (the useProgressBar config toggle)
//   - A bucketed latency histogram for per-operation percentile estimates
package bench
