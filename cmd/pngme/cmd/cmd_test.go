package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pngme/pkg/api"
	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/config"
	"github.com/ssargent/pngme/pkg/di"
	"github.com/ssargent/pngme/pkg/png"
	"github.com/ssargent/pngme/pkg/storage"
)

func testImage() []byte {
	return png.FromChunks([]*codec.Chunk{
		codec.NewChunk(codec.MustParseChunkType("IHDR"), []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 2, 0, 0, 0}),
		codec.NewChunk(codec.MustParseChunkType("IEND"), nil),
	}).Bytes()
}

// harness runs commands against an in-memory filesystem
type harness struct {
	t         *testing.T
	container *di.Container
	files     *storage.FileStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	// Keep a developer's own config file out of the tests.
	t.Setenv("HOME", t.TempDir())

	files := storage.NewFileStore(memfs.New())
	require.NoError(t, files.Write("pic.png", testImage()))

	container := di.NewContainer()
	container.SetFileStore(files)
	return &harness{t: t, container: container, files: files}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCmd(h.container)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEncodeDecodeRemove(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("encode", "pic.png", "RuSt", "This is a secret message!")
	require.NoError(t, err)

	out, err := h.run("decode", "pic.png", "RuSt")
	require.NoError(t, err)
	assert.Equal(t, "This is a secret message!\n", out)

	out, err = h.run("remove", "pic.png", "RuSt")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed chunk RuSt")
	assert.Contains(t, out, "at index 2")

	_, err = h.run("decode", "pic.png", "RuSt")
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrNotFound)

	data, err := h.files.Read("pic.png")
	require.NoError(t, err)
	assert.Equal(t, testImage(), data)
}

func TestEncodeToOutputFile(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("encode", "pic.png", "RuSt", "hidden", "out.png")
	require.NoError(t, err)

	original, err := h.files.Read("pic.png")
	require.NoError(t, err)
	assert.Equal(t, testImage(), original)

	out, err := h.run("decode", "out.png", "RuSt")
	require.NoError(t, err)
	assert.Equal(t, "hidden\n", out)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"invalid chunk type", []string{"encode", "pic.png", "Ru1t", "msg"}, codec.ErrInvalidTag},
		{"chunk type too long", []string{"encode", "pic.png", "RuStX", "msg"}, codec.ErrInvalidLength},
		{"remove missing chunk", []string{"remove", "pic.png", "RuSt"}, codec.ErrNotFound},
		{"decode missing chunk", []string{"decode", "pic.png", "teSt"}, codec.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run(tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("decode", "missing.png", "RuSt")
		require.Error(t, err)
	})

	t.Run("not a png", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.files.Write("text.txt", []byte("hello, world")))
		_, err := h.run("print", "text.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, codec.ErrBadSignature)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("decode", "pic.png")
		require.Error(t, err)
	})
}

func TestPrint(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		h := newHarness(t)
		out, err := h.run("print", "pic.png", "--format", "plain")
		require.NoError(t, err)
		assert.Contains(t, out, "Type: IHDR")
		assert.Contains(t, out, "Type: IEND")
	})

	t.Run("table", func(t *testing.T) {
		h := newHarness(t)
		out, err := h.run("print", "pic.png", "--format", "table")
		require.NoError(t, err)
		assert.Contains(t, out, "IHDR")
		assert.Contains(t, out, "IEND")
		assert.Contains(t, out, "SAFE TO COPY")
	})

	t.Run("auto falls back to plain off a terminal", func(t *testing.T) {
		h := newHarness(t)
		out, err := h.run("print", "pic.png")
		require.NoError(t, err)
		assert.Contains(t, out, "Png {")
	})

	t.Run("unknown format", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("print", "pic.png", "--format", "xml")
		require.Error(t, err)
	})
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "plain", resolveFormat("auto", &buf))
	assert.Equal(t, "plain", resolveFormat("", &buf))
	assert.Equal(t, "table", resolveFormat("table", &buf))
	assert.Equal(t, "plain", resolveFormat("plain", &buf))
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)
	configPath := filepath.Join(t.TempDir(), "pngme", "config.yaml")

	out, err := h.run("--config", configPath, "config", "init", "--data-dir", "/srv/pngme")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to "+configPath)

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/pngme", cfg.DataDir)
	assert.Len(t, cfg.Security.APIKey, 64)

	_, err = h.run("--config", configPath, "config", "init")
	require.Error(t, err)

	_, err = h.run("--config", configPath, "config", "init", "--force")
	require.NoError(t, err)

	out, err = h.run("--config", configPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "data_dir: ./data")
	assert.Contains(t, out, "api_key:")
}

func TestMissingExplicitConfig(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("--config", filepath.Join(t.TempDir(), "nope.yaml"), "decode", "pic.png", "RuSt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file does not exist")
}

// recordingStarter captures the configuration it was started with
type recordingStarter struct {
	config  api.ServerConfig
	archive api.ImageArchive
	started bool
}

func (s *recordingStarter) StartServer(_ context.Context, archive api.ImageArchive, config api.ServerConfig, _ *slog.Logger) error {
	s.started = true
	s.archive = archive
	s.config = config
	return nil
}

type recordingFactory struct {
	starter *recordingStarter
}

func (f *recordingFactory) CreateServerStarter() api.ServerStarter {
	return f.starter
}

func TestServe(t *testing.T) {
	t.Run("flags override config", func(t *testing.T) {
		h := newHarness(t)
		starter := &recordingStarter{}
		h.container.SetServerFactory(&recordingFactory{starter: starter})
		dataDir := t.TempDir()

		out, err := h.run("serve", "--api-key", "secret", "--port", "9191", "--data-dir", dataDir)
		require.NoError(t, err)
		assert.Contains(t, out, "Starting pngme API server on 127.0.0.1:9191")

		require.True(t, starter.started)
		assert.Equal(t, "secret", starter.config.APIKey)
		assert.Equal(t, 9191, starter.config.Port)
		assert.Equal(t, dataDir, starter.config.DataDir)
		assert.NotNil(t, starter.archive)
	})

	t.Run("config supplies defaults", func(t *testing.T) {
		h := newHarness(t)
		starter := &recordingStarter{}
		h.container.SetServerFactory(&recordingFactory{starter: starter})

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Port = 7000
		cfg.Security.APIKey = "from-config"
		require.NoError(t, config.SaveConfig(cfg, configPath))

		_, err := h.run("--config", configPath, "serve")
		require.NoError(t, err)
		assert.Equal(t, "from-config", starter.config.APIKey)
		assert.Equal(t, 7000, starter.config.Port)
		assert.Equal(t, cfg.DataDir, starter.config.DataDir)
	})

	t.Run("requires an API key", func(t *testing.T) {
		h := newHarness(t)
		starter := &recordingStarter{}
		h.container.SetServerFactory(&recordingFactory{starter: starter})

		_, err := h.run("serve", "--data-dir", t.TempDir())
		require.Error(t, err)
		assert.False(t, starter.started)
	})
}

func TestLogLevelFlag(t *testing.T) {
	h := newHarness(t)
	root := NewRootCmd(h.container)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--log-level", "debug", "encode", "pic.png", "RuSt", "hi"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, errOut.String(), "message encoded")
	assert.Contains(t, errOut.String(), "chunk_type=RuSt")
}

func TestLogLevelFlag_Invalid(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("--log-level", "bogus", "decode", "pic.png", "RuSt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown logging level "bogus"`)
}

func TestEncodeKeepsExistingOutput(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.files.Write("out.png", []byte("keep me")))

	_, err := h.run("encode", "pic.png", "RuSt", "hidden", "out.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := h.files.Read("out.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep me"), data)

	_, err = h.run("encode", "pic.png", "RuSt", "hidden", "out.png", "--force")
	require.NoError(t, err)
	out, err := h.run("decode", "out.png", "RuSt")
	require.NoError(t, err)
	assert.Equal(t, "hidden\n", out)
}
