// Package spill manages the on-disk working state of one sort job: a
// private temporary directory, chunks of lines accumulated in memory under
// a byte budget, and the sequence-numbered files those chunks are flushed
// to once full.
//
// A Chunk keeps its lines in a B-tree ordered by the caller's comparator
// with the arrival ordinal as a tie-break, so flushing in ascending tree
// order yields a stable sort: equal lines leave the chunk in the order they
// arrived, and no two entries ever collide. Spill files hold one record per
// line in the internal UTF-8 representation and are read back exactly once,
// sequentially, during the merge.
package spill
