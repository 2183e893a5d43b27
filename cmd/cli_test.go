package cmd

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianadrielbraun/qrforge/internal/session"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	root := newRootCmd(fs)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderWritesBothFormats(t *testing.T) {
	fs := afero.NewMemMapFs()

	stdout, _, err := executeCLI(t, fs, "render", "HELLO", "--out", "/out")
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join("/out", "qrcode.svg"))
	assert.Contains(t, stdout, filepath.Join("/out", "qrcode.png"))

	svg, err := afero.ReadFile(fs, "/out/qrcode.svg")
	require.NoError(t, err)
	assert.Contains(t, string(svg), `viewBox="0 0 29 29"`)
	assert.Contains(t, string(svg), `fill="#FFFFFF"`)

	raw, err := afero.ReadFile(fs, "/out/qrcode.png")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 290, img.Bounds().Dx())
	assert.Equal(t, 290, img.Bounds().Dy())
}

func TestRenderSingleFormatWithColors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, _, err := executeCLI(t, fs, "render", "HELLO", "-o", "/out", "-f", "svg", "--fg", "#f00", "--transparent")
	require.NoError(t, err)

	svg, err := afero.ReadFile(fs, "/out/qrcode.svg")
	require.NoError(t, err)
	assert.Contains(t, string(svg), `fill="#FF0000"`)
	assert.NotContains(t, string(svg), "<rect")

	exists, err := afero.Exists(fs, "/out/qrcode.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRenderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad color", args: []string{"render", "HELLO", "--fg", "blue"}, want: "--fg"},
		{name: "bad format", args: []string{"render", "HELLO", "-f", "gif"}, want: "unknown export format"},
		{name: "too long", args: []string{"render", strings.Repeat("A", 5000)}, want: "capacity"},
		{name: "missing text", args: []string{"render"}, want: "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			_, _, err := executeCLI(t, fs, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigPrintsEffectiveSettings(t *testing.T) {
	t.Setenv("QRFORGE_ENCODER_ENGINE", "skip2")
	t.Setenv("QRFORGE_REDIS_PASSWORD", "hunter2")

	stdout, _, err := executeCLI(t, afero.NewMemMapFs(), "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "engine = 'skip2'")
	assert.Contains(t, stdout, "[server]")
	assert.NotContains(t, stdout, "hunter2")
}

func TestConfigFileFlag(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(file, []byte("[log]\nlevel = \"debug\"\n"), 0o644))

	stdout, _, err := executeCLI(t, afero.NewMemMapFs(), "config", "--config", file)
	require.NoError(t, err)
	assert.Contains(t, stdout, "level = 'debug'")
}

func TestInvalidConfigFails(t *testing.T) {
	t.Setenv("QRFORGE_BLOB_STORE", "s3")

	_, _, err := executeCLI(t, afero.NewMemMapFs(), "render", "HELLO")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blob.store")
}

func TestRouterServesMetricsAndPipeline(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	a, err := wireApp("", afero.NewMemMapFs(), &bytes.Buffer{})
	require.NoError(t, err)
	sessions := session.NewManager(a.newController, time.Minute)
	r := newRouter(a, sessions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/qr?text=HELLO&format=svg", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<svg")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `qrforge_generations_total{result="ok"} 1`)
	assert.Contains(t, w.Body.String(), `qrforge_exports_total{format="svg",result="ok"} 1`)
}
