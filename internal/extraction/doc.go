// Package extraction holds the pure, synchronous stages of the import pipeline:
// segmentation, response parsing, field normalization and deduplication.
//
// Records are parsed per chunk. A transaction whose text straddles a chunk
// boundary may be lost. Chunk boundaries are not aligned to records.
package extraction
