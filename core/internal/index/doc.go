// Package index encodes and discovers the entry index of an archive file.
//
// An archive is laid out as
//
//	[header "SHOKO001"] [blob region] [index records] [footer]
//
// Each index record is
//
//	path_len:u32 | path | size:u64 | offset:u64 | level:u8
//
// and the footer, always the last FooterSize bytes of the file, is
//
//	index_start:u64 | entry_count:u32 | "SK"
//
// All integers are little-endian. The index is rewritten in full on every
// mutation and starts where the last blob ends.
package index
