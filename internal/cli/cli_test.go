package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnnway "github.com/Alu-Vidor/cnn-way"
	"github.com/Alu-Vidor/cnn-way/imageutil"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runContext(t, context.Background(), args...)
}

func runContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { cnnway.SetLogger(nil) })

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

const oneStrokes = `[[{"x":140,"y":40},{"x":140,"y":240}]]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestClassifyStrokesJSON(t *testing.T) {
	strokes := writeFile(t, "one.json", oneStrokes)

	stdout, _, err := run(t, "classify", "--strokes", strokes, "--json", "--top", "4")
	require.NoError(t, err)

	var out classifyOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Blank)
	require.Len(t, out.Predictions, 4)
	assert.Equal(t, 1, out.Predictions[0].Digit)
	for i := 1; i < len(out.Predictions); i++ {
		assert.LessOrEqual(t, out.Predictions[i].Probability, out.Predictions[i-1].Probability)
	}
}

func TestClassifyImage(t *testing.T) {
	img := imageutil.NewStrokeCanvas().Render([]imageutil.Stroke{
		{{X: 70, Y: 50}, {X: 210, Y: 50}, {X: 110, Y: 240}},
	})
	path := filepath.Join(t.TempDir(), "seven.png")
	require.NoError(t, imageutil.SavePNG(img, path))

	stdout, _, err := run(t, "classify", path, "--show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Registered input")
	assert.Contains(t, stdout, "Predictions")
	assert.Contains(t, stdout, "@")

	lines := strings.Split(stdout, "\n")
	var first string
	for i, l := range lines {
		if strings.Contains(l, "Predictions") && i+1 < len(lines) {
			first = strings.TrimSpace(lines[i+1])
			break
		}
	}
	assert.True(t, strings.HasPrefix(first, "7"), "first prediction line %q", first)
}

func TestClassifyBlankWarns(t *testing.T) {
	strokes := writeFile(t, "blank.json", `[]`)
	stdout, _, err := run(t, "classify", "--strokes", strokes)
	require.NoError(t, err)
	assert.Contains(t, stdout, "no ink found")
	assert.Contains(t, stdout, "10.0%")
}

func TestClassifyInputErrors(t *testing.T) {
	strokes := writeFile(t, "one.json", oneStrokes)

	_, _, err := run(t, "classify")
	assert.ErrorIs(t, err, errInput)

	_, _, err = run(t, "classify", "x.png", "--strokes", strokes)
	assert.ErrorIs(t, err, errInput)

	_, _, err = run(t, "classify", filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, _, err = run(t, "classify", "--strokes", strokes, "--top", "0")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	strokes := writeFile(t, "one.json", oneStrokes)

	cfg := writeFile(t, "cnnway.toml", "[classifier]\ntemperature = 40.0\n")
	stdout, _, err := run(t, "--config", cfg, "classify", "--strokes", strokes, "--json", "--top", "1")
	require.NoError(t, err)

	var sharp classifyOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &sharp))

	stdout, _, err = run(t, "classify", "--strokes", strokes, "--json", "--top", "1")
	require.NoError(t, err)
	var soft classifyOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &soft))

	assert.Equal(t, soft.Predictions[0].Digit, sharp.Predictions[0].Digit)
	assert.Greater(t, sharp.Predictions[0].Probability, soft.Predictions[0].Probability)

	bad := writeFile(t, "bad.toml", "[classifier]\ntemperature = -1.0\n")
	_, _, err = run(t, "--config", bad, "templates")
	assert.ErrorIs(t, err, cnnway.ErrInvalidConfig)
}

func TestVerboseLogsToStderr(t *testing.T) {
	strokes := writeFile(t, "one.json", oneStrokes)
	_, stderr, err := run(t, "-v", "classify", "--strokes", strokes)
	require.NoError(t, err)
	assert.Contains(t, stderr, "template bank built")
	assert.Contains(t, stderr, "loaded strokes")
}

func TestInspect(t *testing.T) {
	strokes := writeFile(t, "one.json", oneStrokes)
	outDir := filepath.Join(t.TempDir(), "inspect")

	stdout, _, err := run(t, "inspect", "--strokes", strokes, "--out", outDir, "--scale", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "prediction")

	for _, name := range []string{"raw.png", "normalized.png", "scores.png", "report.html"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	for _, k := range cnnway.Kernels() {
		assert.FileExists(t, filepath.Join(outDir, featureDir, k.ID+".png"))
	}

	img, err := imageutil.LoadImage(filepath.Join(outDir, "normalized.png"))
	require.NoError(t, err)
	assert.Equal(t, cnnway.CanvasSize*2, img.Bounds().Dx())

	html, err := os.ReadFile(filepath.Join(outDir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Digit probabilities")
}

func TestInspectRequiresOut(t *testing.T) {
	strokes := writeFile(t, "one.json", oneStrokes)
	_, _, err := run(t, "inspect", "--strokes", strokes)
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	stdout, _, err := run(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Templates (ascii)")
	assert.Contains(t, stdout, "10/10")
}

func TestCommandsStopWhenCanceled(t *testing.T) {
	strokes := writeFile(t, "one.json", oneStrokes)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		args []string
	}{
		{"classify", []string{"classify", "--strokes", strokes}},
		{"inspect", []string{"inspect", "--strokes", strokes, "--out", filepath.Join(t.TempDir(), "out")}},
		{"templates", []string{"templates"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runContext(t, ctx, tt.args...)
			assert.ErrorIs(t, err, context.Canceled)
			assert.NotContains(t, stdout, "Predictions")
		})
	}
}

func TestVersion(t *testing.T) {
	SetVersion("v0.1.0", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "", "") })

	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cnnway v0.1.0")
	assert.Contains(t, stdout, "commit: abc123")
}
