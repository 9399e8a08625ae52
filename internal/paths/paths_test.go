package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHome points the platform lookups at home for the rest of the test.
func fakeHome(t *testing.T, home string) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.homeDir = func() (string, error) { return home, nil }
	platformDir.userConfigDir = func() (string, error) { return filepath.Join(home, "AppData"), nil }
}

func TestDefaultDirs(t *testing.T) {
	home := t.TempDir()
	fakeHome(t, home)

	if runtime.GOOS != "linux" {
		config, err := DefaultConfigDir()
		require.NoError(t, err)
		data, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "AppData", "grid"), config)
		assert.Equal(t, config, data, "config and data share one directory off Linux")
		return
	}

	tests := []struct {
		name    string
		xdgEnv  string
		xdgVal  string
		resolve func() (string, error)
		want    string
	}{
		{"config from XDG", "XDG_CONFIG_HOME", "/xdg/config", DefaultConfigDir, "/xdg/config/grid"},
		{"config under home", "XDG_CONFIG_HOME", "", DefaultConfigDir, filepath.Join(home, ".config", "grid")},
		{"data from XDG", "XDG_DATA_HOME", "/xdg/data", DefaultDataDir, "/xdg/data/grid"},
		{"data under home", "XDG_DATA_HOME", "", DefaultDataDir, filepath.Join(home, ".local", "share", "grid")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.xdgEnv, tt.xdgVal)
			got, err := tt.resolve()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConfigDirPrecedence(t *testing.T) {
	home := t.TempDir()
	fakeHome(t, home)
	t.Setenv("XDG_CONFIG_HOME", "")
	platform, err := DefaultConfigDir()
	require.NoError(t, err)

	t.Setenv(EnvConfigDir, "/from/env")
	got, err := ResolveConfigDir("/from/flag")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", got)

	got, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", got)

	t.Setenv(EnvConfigDir, "")
	got, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, platform, got)
}

func TestResolveDataDirPrecedence(t *testing.T) {
	work := t.TempDir()
	prevWD, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	// macOS reports TempDir through the /private symlink.
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name   string
		flag   string
		config string
		env    string
		want   string
	}{
		{"flag beats config and env", "/flag", "/config", "/env", "/flag"},
		{"config beats GRID_DATA_DIR", "", "/config", "/env", "/config"},
		{"GRID_DATA_DIR alone", "", "", "/env", "/env"},
		{".grid-db in the working directory", "", "", "", filepath.Join(cwd, ".grid-db")},
		{"relative flag is made absolute", "tables", "", "", filepath.Join(cwd, "tables")},
		{"relative env is made absolute", "", "", "env-tables", filepath.Join(cwd, "env-tables")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

