// Package pkg provides the core libraries for pkgpulse package health scanning.
//
// # Overview
//
// pkgpulse inspects npm packages before you depend on them: it searches
// the registry, scores a package's quality, popularity and maintenance,
// and compares candidates side by side. The pkg directory is organized
// into these areas:
//
//  1. [registry] - npm registry HTTP clients (search, packuments, downloads)
//  2. [scanner] - Orchestration (fetch, cache, score, report)
//  3. [score] - Pure scoring heuristics and version parsing
//  4. [cache] - TTL response caches (memory, file, null)
//  5. [export] - JSON, CSV and Markdown serialization
//
// # Architecture
//
// The typical data flow through pkgpulse:
//
//	npm registry APIs
//	         ↓
//	    [registry] package (fetch with timeout and retry)
//	         ↓
//	    [scanner] package (cache + concurrent fan-out)
//	         ↓
//	    [score] package (health heuristics)
//	         ↓
//	    [export] / CLI output
//
// # Quick Start
//
// Scan a package and print its health report:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/pkgpulse/pkgpulse/pkg/scanner"
//	)
//
//	func main() {
//	    s := scanner.New(scanner.Config{}, nil, nil)
//	    report, err := s.Scan(context.Background(), "express", scanner.ScanOptions{IncludeDownloads: true})
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Printf("%s@%s: %s (%.2f)\n", report.Name, report.Version, report.Health.Status, report.Health.Final)
//	}
//
// # Supporting Packages
//
//   - [httputil] - Retry with exponential backoff
//   - [errors] - Structured error codes and input validation
//   - [observability] - Optional metrics and tracing hooks
//   - [buildinfo] - Version information injected at build time
package pkg
