// Package shoko implements a single-file encrypted archive container.
//
// An archive multiplexes many named byte blobs into one file:
//
//	[header "SHOKO001"] [sealed blobs...] [index records] [14-byte footer]
//
// Each blob is optionally run-length encoded and always sealed with an
// AEAD cipher under a key read from a KeySource. The index sits after the
// last blob and is rewritten in full on every mutation, so the file is
// always self-describing from its trailer.
//
// Overwriting or deleting an entry leaves its old blob bytes in place;
// Compact rewrites the archive with only live blobs.
//
// An Archive is not safe for concurrent use. Within one process only one
// Archive may hold a given file at a time; coordinating across processes is
// left to the caller.
package shoko
