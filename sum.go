package shoko

import (
	"bufio"
	_ "crypto/sha256" // register digest algorithms
	_ "crypto/sha512"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ErrDigestMismatch is returned when an entry's content does not match its
// recorded digest.
var ErrDigestMismatch = errors.New("shoko: digest mismatch")

// Sum is the content digest of one entry's plaintext.
type Sum struct {
	Path   string
	Digest digest.Digest
}

// String formats the sum as "<digest>  <path>".
func (s Sum) String() string {
	return s.Digest.String() + "  " + s.Path
}

// Sums computes the digest of every entry's plaintext in index order using
// alg. A zero alg selects digest.Canonical (sha256).
func Sums(arc *Archive, alg digest.Algorithm) ([]Sum, error) {
	if alg == "" {
		alg = digest.Canonical
	}
	if !alg.Available() {
		return nil, fmt.Errorf("digest algorithm %q: %w", alg, digest.ErrDigestUnsupported)
	}

	paths := arc.Paths()
	sums := make([]Sum, 0, len(paths))
	for _, p := range paths {
		content, err := arc.Extract(p)
		if err != nil {
			return nil, err
		}
		sums = append(sums, Sum{Path: p, Digest: alg.FromBytes(content)})
	}
	return sums, nil
}

// WriteSums writes one line per sum in the format produced by Sum.String.
func WriteSums(w io.Writer, sums []Sum) error {
	for _, s := range sums {
		if _, err := fmt.Fprintln(w, s.String()); err != nil {
			return err
		}
	}
	return nil
}

// ReadSums parses lines written by WriteSums. Blank lines are ignored.
func ReadSums(r io.Reader) ([]Sum, error) {
	var sums []Sum
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		dgst, path, ok := strings.Cut(text, "  ")
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"<digest>  <path>\"", line)
		}
		parsed, err := digest.Parse(dgst)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sums = append(sums, Sum{Path: path, Digest: parsed})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sums, nil
}

// VerifySums checks each sum against the archive and returns the paths
// whose content differs. A path missing from the archive fails with
// ErrNotFound.
func VerifySums(arc *Archive, sums []Sum) ([]string, error) {
	var mismatched []string
	for _, s := range sums {
		content, err := arc.Extract(s.Path)
		if err != nil {
			return nil, err
		}
		v := s.Digest.Verifier()
		if _, err := v.Write(content); err != nil {
			return nil, err
		}
		if !v.Verified() {
			mismatched = append(mismatched, s.Path)
		}
	}
	return mismatched, nil
}
