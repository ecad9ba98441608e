// Package shoko provides a single-file encrypted archive container and the
// tools to move directory trees in and out of it.
//
// An archive stores many named blobs in one file. Each blob is optionally
// run-length encoded and always sealed with AES-256-GCM (or
// ChaCha20-Poly1305) under a 32-byte key. The archive engine lives in the
// [core] subpackage; this package re-exports it and adds:
//
//   - [Pack] and [Unpack] to copy directory trees into and out of an archive
//   - [Export] and [Import] to move entries as a tar stream, optionally
//     compressed with zstd, lz4 or s2
//   - [Sums] and [VerifySums] to record and check content digests
//
// # Quick Start
//
// Pack a directory:
//
//	arc, err := shoko.Create("site.shoko", shoko.WithKeySource(shoko.EnvKey("SHOKO_KEY")))
//	if err != nil {
//	    return err
//	}
//	defer arc.Close()
//	stats, err := shoko.Pack(ctx, "./site", arc)
//
// Read one file back:
//
//	content, err := arc.Extract("index.html")
//
// # Keys
//
// The key is read from a [KeySource] on every blob read and write. By
// default the SHOKO_KEY environment variable supplies it; its raw bytes must
// be exactly 32 bytes long.
//
// # Concurrency
//
// An [Archive] is not safe for concurrent use, and only one Archive per
// process may hold a given file. Nothing here prevents two processes from
// opening the same file; the sar command takes an advisory lock file for that.
package shoko
