// Package merge implements the k-way merge phase of an external sort: it
// streams the globally sorted result out of K independently sorted
// sources using a priority queue of size K.
//
// Cost is O(N log K) comparisons for N total lines, with O(K) lines
// resident at any time, independent of total input size. Comparator ties
// between sources break deterministically toward the source with the
// lowest sequence number, so a fixed input always merges to the same
// output.
package merge
