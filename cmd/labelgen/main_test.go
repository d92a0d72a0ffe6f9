package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelgen/internal/config"
	"labelgen/internal/labels"
	"labelgen/internal/logging"
	"labelgen/internal/store"
)

type testEnv struct {
	dir    string
	config string
	db     string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Cleanup(func() { logging.Initialize(nil) })
	return testEnv{
		dir:    dir,
		config: filepath.Join(dir, "labelgen.yaml"),
		db:     filepath.Join(dir, "labels.db"),
	}
}

// run executes the root command with fresh flag state.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath, dbPath, verbose = config.DefaultPath, "", false
	labelFields = labels.Fields{}
	bulkQuantity = 0
	historyFormat = "table"
	initForce = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

var oakFlags = []string{"--wood", "Oak", "--length", "7in", "--weight", "10g", "--bracelet", "Cord", "--wrap", "Single"}

func TestGenerateCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, append([]string{"generate"}, oakFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Semper Five LLC.")
	assert.Contains(t, out, "S/N: PS000001")
	assert.Contains(t, out, "Wood: Oak")

	out, err = env.run(t, append([]string{"generate"}, oakFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "S/N: PS000002")
}

func TestGenerateCommand_MissingField(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "generate", "--wood", "Oak")
	require.Error(t, err)
	assert.True(t, errors.Is(err, labels.ErrValidation))

	st, err := store.Open(env.db, store.DefaultDriver)
	require.NoError(t, err)
	defer st.Close()
	n, err := st.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBulkCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, append([]string{"bulk", "-n", "3"}, oakFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "3 labels successfully generated!")
	assert.Contains(t, out, "PS000001 .. PS000003")

	_, err = env.run(t, append([]string{"bulk", "-n", "0"}, oakFlags...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, labels.ErrValidation))
}

func TestHistoryCommand_Formats(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, append([]string{"bulk", "-n", "2"}, oakFlags...)...)
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		out, err := env.run(t, "history")
		require.NoError(t, err)
		assert.Contains(t, out, "Serial Number")
		assert.Contains(t, out, "PS000002")
	})

	t.Run("json", func(t *testing.T) {
		out, err := env.run(t, "history", "--format", "json")
		require.NoError(t, err)

		var records []store.Record
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 2)
		assert.Equal(t, "PS000001", records[0].SerialNumber)
		assert.Equal(t, "Cord", records[1].Bracelet)
	})

	t.Run("csv", func(t *testing.T) {
		out, err := env.run(t, "history", "-f", "CSV")
		require.NoError(t, err)

		rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, labels.HistoryHeaders, rows[0])
		assert.Equal(t, "PS000002", rows[2][1])
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := env.run(t, "history", "--format", "xml")
		assert.ErrorContains(t, err, "unknown format")
	})
}

func TestHistoryCommand_EmptyJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "history", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestInitCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	cfg, err := config.Load(env.config)
	require.NoError(t, err)
	assert.Equal(t, env.db, cfg.Store.Path)
	assert.Equal(t, config.DriverModernc, cfg.Store.Driver)

	_, err = env.run(t, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = env.run(t, "init", "--force")
	assert.NoError(t, err)
}

func TestInvalidConfigFails(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.config, []byte("store:\n  driver: postgres\n"), 0644))

	_, err := env.run(t, "history")
	assert.ErrorContains(t, err, "invalid config")
}
