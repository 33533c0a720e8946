package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/proctex/pkg/config"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return New(io.Discard, LogInfo)
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirConfigOverride(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Dir = "/srv/textures"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/textures" {
		t.Errorf("cacheDir() = %q, want config dir", dir)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"default name", "", []string{"png"}, map[string]string{"png": "noise-map.png"}},
		{"single explicit", "out/tex.img", []string{"bmp"}, map[string]string{"bmp": "out/tex.img"}},
		{"multiple base", "out/tex.png", []string{"png", "rgba"}, map[string]string{"png": "out/tex.png", "rgba": "out/tex.rgba"}},
		{"multiple default", "", []string{"png", "bmp"}, map[string]string{"png": "noise-map.png", "bmp": "noise-map.bmp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "noise-map", tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestPipelineOptionsFlagsOverrideConfig(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Noise.Seed = 5
	c.Config.Render.Height = 64

	cmd := c.renderCommand()
	if err := cmd.ParseFlags([]string{"--seed=9", "--width=32", "-f", "png,bmp"}); err != nil {
		t.Fatal(err)
	}
	opts := renderOpts{seed: 9, width: 32, formats: "png,bmp"}

	po := c.pipelineOptions(cmd, "noise-map", opts)
	if po.Seed != 9 {
		t.Errorf("Seed = %d, want flag value 9", po.Seed)
	}
	if po.Width != 32 {
		t.Errorf("Width = %d, want flag value 32", po.Width)
	}
	if po.Height != 64 {
		t.Errorf("Height = %d, want config value 64", po.Height)
	}
	if len(po.Formats) != 2 || po.Formats[1] != "bmp" {
		t.Errorf("Formats = %v, want [png bmp]", po.Formats)
	}
	if po.NoiseScale != config.Default().Noise.Scale {
		t.Errorf("NoiseScale = %v, want config default", po.NoiseScale)
	}
}

func TestRootCommandPresets(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"presets"})
	if err := root.Execute(); err != nil {
		t.Fatalf("presets: %v", err)
	}
	if !strings.Contains(out.String(), "noise-map") {
		t.Errorf("presets output missing noise-map:\n%s", out.String())
	}
}

func TestRootCommandGraphDOT(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	path := filepath.Join(t.TempDir(), "graph.dot")
	root.SetArgs([]string{"graph", "noise-map", "-o", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("graph output is not DOT:\n%s", data)
	}
}

func TestRootCommandRender(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	path := filepath.Join(t.TempDir(), "tex.png")
	root.SetArgs([]string{"render", "noise-map", "--width=8", "--height=8", "--no-cache", "-o", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("render output is not a PNG")
	}
}

func TestRootCommandBadConfig(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "presets"})
	if err := root.Execute(); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			c := newTestCLI(t)
			root := c.RootCommand()

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
}
