package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// harness runs grid commands against private config and data directories.
type harness struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	return &harness{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// exec runs args and returns stdout, stderr and the exit code.
func (h *harness) exec(args ...string) (string, string, int) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", h.configDir, "--data-dir", h.dataDir}, args...)
	code := run(NewRootCmd(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// mustJSON runs args with --json, requires success and decodes stdout into v.
func (h *harness) mustJSON(v any, args ...string) {
	h.t.Helper()
	out, errOut, code := h.exec(append(args, "--json")...)
	require.Equal(h.t, exitSuccess, code, "stderr: %s", errOut)
	require.NoError(h.t, json.Unmarshal([]byte(out), v), out)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.exec("version")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "grid v")

	_, err := os.Stat(h.configDir)
	assert.True(t, os.IsNotExist(err), "version does not touch the config dir")
}

func TestInit_WritesDefaultConfig(t *testing.T) {
	h := newHarness(t)
	out, errOut, code := h.exec("init")
	require.Equal(t, exitSuccess, code, errOut)
	assert.Contains(t, out, "grid initialized")

	data, err := os.ReadFile(filepath.Join(h.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "log_level: normal")

	_, err = os.Stat(filepath.Join(h.dataDir, "fields.jsonl"))
	assert.NoError(t, err)
}

func TestCellWorkflow(t *testing.T) {
	h := newHarness(t)

	var field types.FieldMeta
	h.mustJSON(&field, "field", "create", "Price", "Number", "--options", `{"format":"USD","scale":2}`)
	require.NotEmpty(t, field.FieldID)

	var row types.Row
	h.mustJSON(&row, "row", "create")
	require.NotEmpty(t, row.RowID)

	out, errOut, code := h.exec("cell", "set", row.RowID, field.FieldID, "1234.5")
	require.Equal(t, exitSuccess, code, errOut)
	assert.Equal(t, "1234.5\n", out)

	out, _, code = h.exec("cell", "get", row.RowID, field.FieldID)
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "$1,234.50\n", out)

	var cellOut cellOutput
	h.mustJSON(&cellOut, "cell", "get", row.RowID, field.FieldID)
	assert.Equal(t, cellOutput{Raw: "1234.5", Content: "$1,234.50", Configured: true}, cellOut)

	out, _, code = h.exec("row", "show", row.RowID)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Price")
	assert.Contains(t, out, "$1,234.50")
}

func TestSelectWorkflow(t *testing.T) {
	h := newHarness(t)

	var field types.FieldMeta
	h.mustJSON(&field, "field", "create", "Status", "SingleSelect")

	var opt struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	h.mustJSON(&opt, "field", "option", "add", field.FieldID, "Done")
	assert.Equal(t, "Done", opt.Name)

	var row types.Row
	h.mustJSON(&row, "row", "create")

	_, errOut, code := h.exec("cell", "set", row.RowID, field.FieldID, opt.ID)
	require.Equal(t, exitSuccess, code, errOut)

	out, _, code := h.exec("cell", "get", row.RowID, field.FieldID)
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "Done\n", out)

	out, errOut, code = h.exec("field", "option", "delete", field.FieldID, opt.ID)
	require.Equal(t, exitSuccess, code, errOut)
	assert.Contains(t, out, "Deleted option: "+opt.ID)

	_, _, code = h.exec("field", "option", "delete", field.FieldID, opt.ID)
	assert.Equal(t, exitUserError, code)

	out, _, code = h.exec("cell", "get", row.RowID, field.FieldID)
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "\n", out)
}

func TestFieldSwitchAndList(t *testing.T) {
	h := newHarness(t)

	var field types.FieldMeta
	h.mustJSON(&field, "field", "create", "Done", "Checkbox")
	var row types.Row
	h.mustJSON(&row, "row", "create")
	_, _, code := h.exec("cell", "set", row.RowID, field.FieldID, "true")
	require.Equal(t, exitSuccess, code)

	out, errOut, code := h.exec("field", "switch", field.FieldID, "RichText")
	require.Equal(t, exitSuccess, code, errOut)
	assert.Contains(t, out, "RichText")

	out, _, code = h.exec("cell", "get", row.RowID, field.FieldID)
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "Yes\n", out, "checkbox cell still renders after switching to text")

	out, _, code = h.exec("field", "list")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Done")
	assert.Contains(t, out, "Total: 1 field(s)")

	var fields []types.FieldMeta
	h.mustJSON(&fields, "field", "list")
	require.Len(t, fields, 1)
	assert.Equal(t, types.FieldTypeRichText, fields[0].FieldType)
}

func TestDeleteCommands(t *testing.T) {
	h := newHarness(t)

	var field types.FieldMeta
	h.mustJSON(&field, "field", "create", "Notes", "RichText")
	var row types.Row
	h.mustJSON(&row, "row", "create")

	_, _, code := h.exec("row", "delete", row.RowID)
	assert.Equal(t, exitSuccess, code)
	out, _, code := h.exec("row", "list")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "No rows found.")

	_, _, code = h.exec("field", "delete", field.FieldID)
	assert.Equal(t, exitSuccess, code)
	_, errOut, code := h.exec("field", "delete", field.FieldID)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "field not found")
}

func TestExitCodes(t *testing.T) {
	h := newHarness(t)
	var field types.FieldMeta
	h.mustJSON(&field, "field", "create", "Qty", "Number")
	var row types.Row
	h.mustJSON(&row, "row", "create")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "invalid number", args: []string{"cell", "set", row.RowID, field.FieldID, "abc"}, want: exitUserError},
		{name: "unknown field type", args: []string{"field", "create", "X", "Formula"}, want: exitUserError},
		{name: "duplicate field name", args: []string{"field", "create", "Qty", "Number"}, want: exitUserError},
		{name: "missing row", args: []string{"row", "show", "nope"}, want: exitUserError},
		{name: "wrong arg count", args: []string{"cell", "get", row.RowID}, want: exitUserError},
		{name: "unknown flag", args: []string{"row", "list", "--bogus"}, want: exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := h.exec(tt.args...)
			assert.Equal(t, tt.want, code, errOut)
			assert.True(t, strings.HasPrefix(errOut, "grid:"), errOut)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(h.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(h.configDir, configFileExt), []byte("backend: postgres\n"), 0o644))

	_, errOut, code := h.exec("row", "list")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "unknown backend")

	require.NoError(t, os.WriteFile(filepath.Join(h.configDir, configFileExt), []byte("log_level: loud\n"), 0o644))
	_, errOut, code = h.exec("row", "list")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "invalid log level")
}

func TestLoadConfig(t *testing.T) {
	t.Run("first run writes the default file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "config")
		v, err := loadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, types.BackendSQLite, v.GetString(cfgKeyBackend))
		assert.Equal(t, "normal", v.GetString(cfgKeyLogLevel))
		assert.Empty(t, v.GetString(cfgKeyDataDir))

		written, err := os.ReadFile(filepath.Join(dir, configFileExt))
		require.NoError(t, err)
		assert.Equal(t, defaultConfigYAML, string(written))
	})

	t.Run("existing file is read and kept", func(t *testing.T) {
		dir := t.TempDir()
		content := "data_dir: /srv/grid\nlog_level: debug\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(content), 0o644))

		v, err := loadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "/srv/grid", v.GetString(cfgKeyDataDir))
		assert.Equal(t, "debug", v.GetString(cfgKeyLogLevel))
		assert.Equal(t, types.BackendSQLite, v.GetString(cfgKeyBackend), "unset keys fall back to defaults")

		kept, err := os.ReadFile(filepath.Join(dir, configFileExt))
		require.NoError(t, err)
		assert.Equal(t, content, string(kept))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("backend: [\n"), 0o644))
		_, err := loadConfig(dir)
		assert.Error(t, err)
	})
}

func TestBackendConfigDataDirPrecedence(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt), []byte("data_dir: /from/config\n"), 0o644))
	v, err := loadConfig(configDir)
	require.NoError(t, err)

	t.Setenv("GRID_DATA_DIR", "/from/env")

	a := &app{config: v}
	cfg, err := a.backendConfig()
	require.NoError(t, err)
	assert.Equal(t, "/from/config", cfg.DataDir, "config.yaml beats GRID_DATA_DIR")
	assert.Equal(t, types.BackendSQLite, cfg.Backend)

	a.flags.dataDir = "/from/flag"
	cfg, err = a.backendConfig()
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.DataDir)

	a = &app{}
	cfg, err = a.backendConfig()
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataDir)
}

func TestExitCodeClassification(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(classify(types.ErrInvalidNumber)))
	assert.Equal(t, exitUserError, exitCode(fmt.Errorf("wrapped: %w", types.ErrRowNotFound)))
	assert.Equal(t, exitSysError, exitCode(classify(errors.New("disk full"))))
	assert.Equal(t, exitSysError, exitCode(fmt.Errorf("outer: %w", systemErr(errors.New("io")))))
	assert.Nil(t, classify(nil))
}
