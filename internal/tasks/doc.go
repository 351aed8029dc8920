// Package tasks runs the concert matching sweep with real-time progress reporting.
//
// # Matching Pipeline
//
// [Finder.Run] crosses every travel period with every artist (period-major), asks the
// [concerts.Aggregator] for each (period, artist) pair, then deduplicates and orders the collected records:
//
//  1. No providers registered: refuse to run with [shared.ErrNoProviders]
//  2. No travel periods: return an empty result without contacting any provider
//  3. Sweep: |periods| × |artists| aggregator calls, each fanning out to every provider
//  4. [Dedup] : first record per (artist, venue, date) wins
//  5. [SortByDate] : stable ascending order by raw date string
//
// # Progress Reporting
//
// Progress uses a non-blocking channel. The [ProgressUpdate] struct contains phase, step counters and a
// message; Step/Total counts completed (period, artist) pairs. Updates use select with default so a slow
// reader never stalls the sweep.
//
// # Cancellation
//
// The context is checked between pairs. A cancelled sweep returns the records gathered so far, deduplicated
// and sorted, together with an error wrapping [shared.ErrCancelled].
package tasks
