package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/slidecraft/chipedit/internal/logging"
	"github.com/slidecraft/chipedit/markdown"
)

type cliEnv struct {
	dir        string
	configPath string
}

func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	configPath := filepath.Join(base, "config.toml")
	body := "[media]\ndir = \"" + filepath.ToSlash(filepath.Join(base, "media")) + "\"\n" +
		"[upload]\nwant_caption = false\n" +
		"[log]\nlevel = \"error\"\nformat = \"json\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return &cliEnv{dir: base, configPath: configPath}
}

func (e *cliEnv) write(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(e.dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("output %q does not contain %q", out, want)
	}
}

func pngFile(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSegments(t *testing.T) {
	env := setupCLIEnv(t)
	doc := env.write(t, "slide.md", []byte("Intro\n![chart](https://cdn.example.com/c.png)\n![](uploading:blob:1)\n"))

	out, _, err := runCLI(t, "--config", env.configPath, "segments", doc)
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	requireContains(t, out, "chart")
	requireContains(t, out, "uploading")
	requireContains(t, out, "Remote images:")
	requireContains(t, out, "https://cdn.example.com/c.png")
}

func TestRoundTrip(t *testing.T) {
	env := setupCLIEnv(t)
	doc := env.write(t, "slide.md", []byte("a\n\n![x](/m/x.png)\nb"))

	out, _, err := runCLI(t, "--config", env.configPath, "roundtrip", doc)
	if err != nil {
		t.Fatalf("roundtrip: %v", err)
	}
	requireContains(t, out, "round-trip holds")
}

func TestAttach(t *testing.T) {
	env := setupCLIEnv(t)
	doc := env.write(t, "slide.md", []byte("# Results"))
	img := env.write(t, "q3_chart.png", pngFile(t, 2000, 1000))
	junk := env.write(t, "notes.txt", []byte("hello"))

	out, stderr, err := runCLI(t, "--config", env.configPath, "attach", doc, img, junk)
	if err != nil {
		t.Fatalf("attach: %v (stderr %q)", err, stderr)
	}
	requireContains(t, out, "q3_chart.png")
	requireContains(t, out, "2000x1000")
	requireContains(t, out, "2K")
	requireContains(t, stderr, "[success] Image uploaded")

	data, err := os.ReadFile(doc)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "# Results\n![q3\\_chart](/m/") || !strings.HasSuffix(text, ".png)\n") {
		t.Errorf("rewritten file = %q", text)
	}
	if strings.Contains(text, markdown.UploadPrefix) {
		t.Errorf("placeholder left in %q", text)
	}
}

func TestAttachRejectsUnsupported(t *testing.T) {
	env := setupCLIEnv(t)
	doc := env.write(t, "slide.md", []byte("keep"))
	junk := env.write(t, "deck.zip", []byte("PK"))

	_, stderr, err := runCLI(t, "--config", env.configPath, "attach", doc, junk)
	if err == nil {
		t.Fatal("expected an error when nothing was attached")
	}
	requireContains(t, stderr, "[warning] Unsupported file type: zip")
	data, _ := os.ReadFile(doc)
	if string(data) != "keep" {
		t.Errorf("file rewritten to %q", data)
	}
}

func TestAttachDryRunInChinese(t *testing.T) {
	env := setupCLIEnv(t)
	cfg, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	env.write(t, "config.toml", append(cfg, []byte("[editor]\nlocale = \"zh-CN\"\n")...))
	doc := env.write(t, "slide.md", []byte(""))
	img := env.write(t, "a.png", pngFile(t, 4, 4))

	out, stderr, err := runCLI(t, "--config", env.configPath, "attach", "--dry-run", doc, img)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	requireContains(t, stderr, "图片上传成功")
	requireContains(t, out, "![a](/m/")
	data, _ := os.ReadFile(doc)
	if len(data) != 0 {
		t.Errorf("dry run wrote %q", data)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLIEnv(t)
	target := filepath.Join(env.dir, "new", "config.toml")

	out, _, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestLogLevelFlagValidated(t *testing.T) {
	env := setupCLIEnv(t)
	doc := env.write(t, "slide.md", []byte("x"))
	if _, _, err := runCLI(t, "--config", env.configPath, "--log-level", "loud", "roundtrip", doc); err == nil {
		t.Fatal("expected an invalid log level to fail")
	}
}

func TestFileFollowerApply(t *testing.T) {
	f := newFileFollower("doc.md", "a ![x](/m/x.png) b", logging.NewNop())
	for _, tc := range []struct {
		text, want string
	}{
		{"a ![x](/m/x.png) b", "unchanged"},
		{"a ![y](/m/y.png) b", "patched in place: 1 chips"},
		{"a ![y](/m/y.png) b ![z](/m/z.png)", "rebuilt: 2 chips"},
		{"plain", "rebuilt: 0 chips"},
	} {
		if got := f.apply(tc.text); got != tc.want {
			t.Errorf("apply(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
