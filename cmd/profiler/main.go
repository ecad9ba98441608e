// Command profiler runs archive workloads under pprof for performance work.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand" //nolint:gosec // intentional use for reproducible benchmarks
	"net/http"
	_ "net/http/pprof" //nolint:gosec // intentional profiling endpoint
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"time"

	"github.com/meigma/shoko"
)

type config struct {
	mode       string
	files      int
	fileSize   int
	dirCount   int
	level      int
	cipher     string
	pattern    string
	glob       string
	framing    string
	workers    int
	duration   time.Duration
	iterations int
	pprofAddr  string
	cpuProfile string
	memProfile string
	traceFile  string
	readRandom bool
	tempDir    string
	keepTemp   bool
	randomSeed int64
}

//nolint:unused // sink variables prevent compiler optimizations in profiling
var (
	sinkBytes []byte
	sinkCount int
)

// profileKey is a fixed key; profiles measure throughput, not secrecy.
var profileKey = []byte("profiler-key-0123456789abcdefghi")

//nolint:gocognit // main function complexity is acceptable for CLI tool
func main() {
	cfg := parseFlags()

	if cfg.pprofAddr != "" {
		go func() {
			log.Printf("pprof listening on %s", cfg.pprofAddr)
			//nolint:gosec // intentional pprof server without timeouts for profiling
			if err := http.ListenAndServe(cfg.pprofAddr, nil); err != nil {
				log.Printf("pprof server error: %v", err)
			}
		}()
	}

	dir, cleanup, err := setupTempDir(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if cleanup != nil {
		defer cleanup() //nolint:errcheck // cleanup errors are non-fatal in profiler
	}

	srcDir := filepath.Join(dir, "src")
	paths, err := makeFiles(srcDir, cfg.files, cfg.fileSize, cfg.dirCount, cfg.pattern, cfg.randomSeed)
	if err != nil {
		log.Fatal(err) //nolint:gocritic // exitAfterDefer is intentional - cleanup is best-effort
	}

	arc, err := buildArchive(srcDir, filepath.Join(dir, "profile.shk"), cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer arc.Close()

	if cfg.cpuProfile != "" {
		cpuFile, cpuErr := os.Create(cfg.cpuProfile)
		if cpuErr != nil {
			log.Fatal(cpuErr)
		}
		if cpuErr = pprof.StartCPUProfile(cpuFile); cpuErr != nil {
			log.Fatal(cpuErr)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = cpuFile.Close()
		}()
	}

	if cfg.traceFile != "" {
		traceFile, traceErr := os.Create(cfg.traceFile)
		if traceErr != nil {
			log.Fatal(traceErr)
		}
		if traceErr = trace.Start(traceFile); traceErr != nil {
			log.Fatal(traceErr)
		}
		defer func() {
			trace.Stop()
			_ = traceFile.Close()
		}()
	}

	stats, err := runProfile(cfg, arc, paths, dir)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile != "" {
		runtime.GC()
		f, err := os.Create(cfg.memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
		_ = f.Close()
	}

	fmt.Printf("mode=%s ops=%d bytes=%d elapsed=%s throughput=%.2f MB/s\n",
		cfg.mode,
		stats.ops,
		stats.bytes,
		stats.elapsed,
		float64(stats.bytes)/(1024*1024)/stats.elapsed.Seconds(),
	)
}

type profileStats struct {
	ops     int
	bytes   int64
	elapsed time.Duration
}

//nolint:gocognit,gocyclo,gocritic // complexity is inherent to multi-mode profiler dispatch; hugeParam acceptable for profiler
func runProfile(cfg config, arc *shoko.Archive, paths []string, rootDir string) (profileStats, error) {
	start := time.Now()
	ops := 0
	var byteCount int64
	ctx := context.Background()

	shouldContinue := func() bool {
		if cfg.iterations > 0 {
			return ops < cfg.iterations
		}
		return time.Since(start) < cfg.duration
	}

	switch cfg.mode {
	case "extract":
		rng := rand.New(rand.NewSource(cfg.randomSeed)) //nolint:gosec // intentional for reproducible benchmarks
		for shouldContinue() {
			path := pickPath(paths, ops, rng, cfg.readRandom)
			content, err := arc.Extract(path)
			if err != nil {
				return profileStats{}, err
			}
			sinkBytes = content
			byteCount += int64(len(content))
			ops++
		}

	case "write":
		rng := rand.New(rand.NewSource(cfg.randomSeed)) //nolint:gosec // intentional for reproducible benchmarks
		content := fileContent(cfg.fileSize, cfg.pattern, 0, rng)
		for shouldContinue() {
			path := pickPath(paths, ops, rng, cfg.readRandom)
			if err := arc.Write(path, content, shoko.Level(cfg.level)); err != nil { //nolint:gosec // flag value is clamped in parseFlags
				return profileStats{}, err
			}
			byteCount += int64(len(content))
			ops++
		}

	case "match":
		for shouldContinue() {
			matches, err := arc.Match(cfg.glob)
			if err != nil {
				return profileStats{}, err
			}
			if len(matches) == 0 {
				return profileStats{}, fmt.Errorf("expected at least one match for %q", cfg.glob)
			}
			sinkCount = len(matches)
			ops++
		}

	case "pack":
		srcDir := filepath.Join(rootDir, "src")
		for shouldContinue() {
			target, err := shoko.Create(filepath.Join(rootDir, fmt.Sprintf("pack-%d.shk", ops)), archiveOptions(cfg)...)
			if err != nil {
				return profileStats{}, err
			}
			stats, err := shoko.Pack(ctx, srcDir, target,
				shoko.PackWithLevel(shoko.Level(cfg.level)), //nolint:gosec // flag value is clamped in parseFlags
				shoko.PackWithWorkers(cfg.workers),
			)
			closeErr := target.Close()
			if err := errors.Join(err, closeErr, os.Remove(target.Path())); err != nil {
				return profileStats{}, err
			}
			byteCount += int64(stats.Bytes) //nolint:gosec // bounded by generated dataset
			ops++
		}

	case "unpack":
		for shouldContinue() {
			destDir := filepath.Join(rootDir, "unpack", fmt.Sprintf("iter-%d", ops))
			stats, err := shoko.Unpack(ctx, arc, destDir, shoko.UnpackWithDirectWrites(true))
			if err != nil {
				return profileStats{}, err
			}
			if err := os.RemoveAll(destDir); err != nil {
				return profileStats{}, err
			}
			byteCount += int64(stats.Bytes) //nolint:gosec // bounded by generated dataset
			ops++
		}

	case "compact":
		for shouldContinue() {
			// Rewrite one entry so every pass has garbage to drop.
			path := paths[ops%len(paths)]
			content, err := arc.Extract(path)
			if err != nil {
				return profileStats{}, err
			}
			if err := arc.Write(path, content, shoko.Level(cfg.level)); err != nil { //nolint:gosec // flag value is clamped in parseFlags
				return profileStats{}, err
			}
			stats, err := arc.Compact()
			if err != nil {
				return profileStats{}, err
			}
			byteCount += stats.BytesAfter
			ops++
		}

	case "export":
		framing, err := shoko.ParseFraming(cfg.framing)
		if err != nil {
			return profileStats{}, err
		}
		counter := &countingDiscard{}
		for shouldContinue() {
			if _, err := shoko.Export(ctx, arc, counter, shoko.ExportWithFraming(framing)); err != nil {
				return profileStats{}, err
			}
			ops++
		}
		byteCount = counter.n

	default:
		return profileStats{}, fmt.Errorf("unknown mode: %s", cfg.mode)
	}

	return profileStats{
		ops:     ops,
		bytes:   byteCount,
		elapsed: time.Since(start),
	}, nil
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", "extract", "mode: extract, write, match, pack, unpack, compact, export")
	flag.IntVar(&cfg.files, "files", 512, "number of files")
	flag.IntVar(&cfg.fileSize, "file-size", 16<<10, "file size in bytes")
	flag.IntVar(&cfg.dirCount, "dir-count", 16, "number of directories")
	flag.IntVar(&cfg.level, "level", int(shoko.LevelDefault), "run-length level 0-9")
	flag.StringVar(&cfg.cipher, "cipher", "aes-256-gcm", "AEAD: aes-256-gcm or chacha20-poly1305")
	flag.StringVar(&cfg.pattern, "pattern", "compressible", "pattern: compressible or random")
	flag.StringVar(&cfg.glob, "glob", "dir0*/**", "pattern for match mode")
	flag.StringVar(&cfg.framing, "framing", "none", "export framing: none, zstd, lz4, s2")
	flag.IntVar(&cfg.workers, "workers", 4, "pack read workers")
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "duration to run (ignored if iterations > 0)")
	flag.IntVar(&cfg.iterations, "iterations", 0, "number of iterations to run")
	flag.StringVar(&cfg.pprofAddr, "pprof-addr", "", "pprof listen address (e.g. :6060)")
	flag.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flag.StringVar(&cfg.memProfile, "memprofile", "", "write heap profile to file")
	flag.StringVar(&cfg.traceFile, "trace", "", "write trace to file")
	flag.BoolVar(&cfg.readRandom, "read-random", true, "randomize path selection")
	flag.StringVar(&cfg.tempDir, "temp-dir", "", "directory to use for dataset")
	flag.BoolVar(&cfg.keepTemp, "keep-temp", false, "keep temp dir after run")
	flag.Int64Var(&cfg.randomSeed, "seed", 1, "random seed")
	flag.Parse()
	cfg.level = max(0, min(cfg.level, int(shoko.LevelBest)))
	if cfg.files < 1 {
		log.Fatal("files must be at least 1")
	}
	return cfg
}

//nolint:gocritic // hugeParam acceptable for config struct in CLI tool
func archiveOptions(cfg config) []shoko.Option {
	alg, err := shoko.ParseAlgorithm(cfg.cipher)
	if err != nil {
		log.Fatalf("cipher: %v", err)
	}
	return []shoko.Option{
		shoko.WithKeySource(shoko.StaticKey(profileKey)),
		shoko.WithAlgorithm(alg),
	}
}

func pickPath(paths []string, idx int, rng *rand.Rand, random bool) string {
	if random {
		return paths[rng.Intn(len(paths))]
	}
	return paths[idx%len(paths)]
}

//nolint:gocritic // hugeParam acceptable for config struct in CLI tool
func setupTempDir(cfg config) (string, func() error, error) {
	if cfg.tempDir != "" {
		return cfg.tempDir, nil, os.MkdirAll(cfg.tempDir, 0o755) //nolint:gosec // 0o755 is intentional for profiler temp dirs
	}
	dir, err := os.MkdirTemp("", "shoko-profiler-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() error {
		if cfg.keepTemp {
			return nil
		}
		return os.RemoveAll(dir)
	}
	return dir, cleanup, nil
}

func makeFiles(dir string, fileCount, fileSize, dirCount int, pattern string, seed int64) ([]string, error) {
	if dirCount <= 0 {
		dirCount = 1
	}
	paths := make([]string, 0, fileCount)
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // intentional use for reproducible benchmarks
	for i := range fileCount {
		relPath := fmt.Sprintf("dir%02d/file%05d.dat", i%dirCount, i)
		fullPath := filepath.Join(dir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil { //nolint:gosec // 0o755 is intentional for profiler
			return nil, err
		}
		content := fileContent(fileSize, pattern, i, rng)
		if err := os.WriteFile(fullPath, content, 0o644); err != nil { //nolint:gosec // 0o644 is intentional for profiler test files
			return nil, err
		}
		paths = append(paths, relPath)
	}
	return paths, nil
}

// fileContent returns either random bytes or long single-byte runs, the
// best case for run-length encoding.
func fileContent(size int, pattern string, i int, rng *rand.Rand) []byte {
	content := make([]byte, size)
	switch pattern {
	case "random":
		_, _ = rng.Read(content)
	default:
		fillByte := byte('a' + (i % 26))
		for j := range content {
			content[j] = fillByte
		}
		if len(content) > 0 {
			content[0] = byte(i)
		}
	}
	return content
}

//nolint:gocritic // hugeParam acceptable for config struct in CLI tool
func buildArchive(srcDir, path string, cfg config) (*shoko.Archive, error) {
	arc, err := shoko.Create(path, archiveOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	_, err = shoko.Pack(context.Background(), srcDir, arc,
		shoko.PackWithLevel(shoko.Level(cfg.level)), //nolint:gosec // flag value is clamped in parseFlags
		shoko.PackWithWorkers(cfg.workers),
	)
	if err != nil {
		_ = arc.Close()
		return nil, err
	}
	return arc, nil
}

// countingDiscard counts and drops written bytes.
type countingDiscard struct {
	n int64
}

func (c *countingDiscard) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return io.Discard.Write(p)
}
