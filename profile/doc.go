// Package profile provides optional runtime profiling for letlang.
//
// Profiling integrates [github.com/pkg/profile] and is compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof -o letlang .
//
// Without the tag, [Modes] is empty and every [Profiler] is a no-op.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.New(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start().Stop()
//
// From the command line, profiling an evaluation looks like:
//
//	letlang --pprof-mode=cpu eval fib.let
//	go tool pprof -http=: ~/.cache/letlang/pprof/cpu.pprof
//
// When built with the tag, the package also imports [net/http/pprof], which
// registers its handlers at /debug/pprof/ on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
