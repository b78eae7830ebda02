package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/hmdeploy/internal/config"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	for _, path := range [][]string{
		{"deploy"},
		{"inspect"},
		{"update-library"},
		{"verify"},
		{"abi", "check"},
		{"abi", "sync"},
		{"abi", "generate"},
		{"networks"},
		{"show"},
		{"version"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	for _, name := range []string{"network", "debug", "non-interactive", "timeout"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "n", root.PersistentFlags().Lookup("network").Shorthand)
}

func TestSkipsApp(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
		want bool
	}{
		{"version", &cobra.Command{Use: "version", Run: func(*cobra.Command, []string) {}}, true},
		{"group", &cobra.Command{Use: "abi"}, true},
		{"runnable", &cobra.Command{Use: "deploy", RunE: func(*cobra.Command, []string) error { return nil }}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, skipsApp(tt.cmd))
		})
	}
}

func TestVersionCommandRunsOutsideProject(t *testing.T) {
	t.Chdir(t.TempDir())

	config.SetBuildFlags("v1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { config.SetBuildFlags("dev", "unknown", "unknown") })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "hmdeploy version v1.2.3 (commit abc123, built 2026-01-01)\n", out.String())
}

func TestDurationFlag(t *testing.T) {
	var d durationFlag
	assert.Nil(t, d.ptr())

	require.NoError(t, d.Set("45s"))
	require.NotNil(t, d.ptr())
	assert.Equal(t, 45*time.Second, *d.ptr())

	assert.Error(t, d.Set("soon"))
}
