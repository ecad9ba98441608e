package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shoko.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "SHOKO_KEY", cfg.KeyEnv)
	assert.Equal(t, "aes-256-gcm", cfg.Algorithm)
	assert.Equal(t, 5, cfg.Level)
	assert.Equal(t, 4, cfg.Workers)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
key_env: MY_ARCHIVE_KEY
algorithm: chacha20-poly1305
level: 9
strict_open: true
sync: true
editor: vim
workers: 8
log_level: debug
export_compression: zstd
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		KeyEnv:            "MY_ARCHIVE_KEY",
		Algorithm:         "chacha20-poly1305",
		Level:             9,
		StrictOpen:        true,
		Sync:              true,
		Editor:            "vim",
		Workers:           8,
		LogLevel:          "debug",
		ExportCompression: "zstd",
	}, cfg)

	opts, err := cfg.ArchiveOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 4)
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(writeConfig(t, "level: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Level)
	assert.Equal(t, Default().KeyEnv, cfg.KeyEnv)
	assert.Equal(t, Default().Workers, cfg.Workers)
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"algorithm", "algorithm: rot13\n"},
		{"level", "level: 12\n"},
		{"workers", "workers: 0\n"},
		{"log level", "log_level: chatty\n"},
		{"framing", "export_compression: bzip2\n"},
		{"key env", "key_env: \"\"\n"},
		{"yaml", "level: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Setenv(EnvConfig, writeConfig(t, "workers: 2\n"))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("EDITOR", "")
	cfg := Default()
	assert.Equal(t, DefaultEditor, cfg.EditorCommand())

	t.Setenv("EDITOR", "emacs")
	assert.Equal(t, "emacs", cfg.EditorCommand())

	cfg.Editor = "vi"
	assert.Equal(t, "vi", cfg.EditorCommand())
}
