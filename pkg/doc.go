// Package pkg provides the core libraries for LabelForge batch label
// rendering.
//
// # Overview
//
// LabelForge turns a spreadsheet of rows plus one or more background
// images into a batch of labeled raster images, packaged as a ZIP
// archive. The pkg directory is organized by pipeline stage:
//
//  1. [archive] - background archive parsing and output archive assembly
//  2. [table] - tabular ingestion (CSV, XLSX) and canonical serialization
//  3. [layout] - fitting text into fixed rectangular zones
//  4. [overlay] - the vector text layer and its raster compositing
//  5. [pipeline] - orchestration (resolve → compose → package)
//
// Supporting packages: [errors] for structured error codes, [fonts] for
// typeface loading, [observability] for optional instrumentation hooks,
// and [buildinfo] for version metadata.
//
// # Architecture
//
// The typical data flow through one invocation:
//
//	table buffer + zones + mapping + background source
//	         ↓
//	pipeline.Runner (limits, parsing)
//	         ↓ per row
//	resolver → overlay.Build → overlay.Compositor
//	         ↓
//	archive.Writer → ZIP (images/0001.png … + data.csv)
//
// Row order is preserved end-to-end: output entry N always corresponds to
// input row N, even when rows render in parallel.
package pkg
