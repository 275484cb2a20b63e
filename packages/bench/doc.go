// Package bench repeats one exchange sequentially at a bounded rate and
// summarizes the observed latencies. It is a development tool; every
// iteration is an independent invocation of the executor.
package bench
