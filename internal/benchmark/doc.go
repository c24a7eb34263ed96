// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of packaging:
//   - Project XML parsing, validation and resource collection
//   - Resource location across search directories
//   - End-to-end pack and unpack of a package
//   - CUE configuration loading
//
// To generate a profile, run:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
