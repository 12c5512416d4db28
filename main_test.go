package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/persiantext/fonts"
	"github.com/ByLCY/persiantext/node"
	"github.com/ByLCY/persiantext/renderer/raster"
)

const testJob = `
job Test v1 {
  render hello {
    text: "Hi ${user.name}"
    image_width: 120
    image_height: 60
    size: 20
  }
  render second { text: "سلام"; image_width: 80; image_height: 40; size: 18 }
}
`

func writeJob(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.job")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	return path
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	opts := runOptions{
		InputPath:  writeJob(t, testJob),
		OutDir:     filepath.Join(dir, "out"),
		DebugDir:   filepath.Join(dir, "debug"),
		PreviewDir: filepath.Join(dir, "preview"),
		Data:       map[string]any{"user": map[string]any{"name": "Sara"}},
	}
	written, err := run(opts, raster.NewRenderer(fonts.NewLoader("")))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(written) != 8 {
		t.Fatalf("expected 8 files, got %d: %v", len(written), written)
	}
	for _, name := range []string{"out/hello.png", "out/hello_mask.png", "out/second.png", "out/second_mask.png", "debug/hello.json", "preview/second.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	debug, err := os.ReadFile(filepath.Join(dir, "debug", "hello.json"))
	if err != nil {
		t.Fatalf("read debug: %v", err)
	}
	if !bytes.Contains(debug, []byte("Sara")) {
		t.Fatalf("placeholder was not interpolated: %s", debug)
	}
}

func TestRunReportsRenderName(t *testing.T) {
	path := writeJob(t, "job T v1 {\n render broken { size: 0 }\n}\n")
	_, err := run(runOptions{InputPath: path, OutDir: t.TempDir()}, raster.NewRenderer(nil))
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected error naming the render, got %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := run(runOptions{InputPath: filepath.Join(t.TempDir(), "none.job")}, raster.NewRenderer(nil)); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := run(runOptions{InputPath: writeJob(t, "job {")}, raster.NewRenderer(nil)); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := run(runOptions{}, nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestDescribePrintsDescriptor(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Vazir.ttf"), nil, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	var buf bytes.Buffer
	if err := describe(&buf, fonts.NewLoader(dir)); err != nil {
		t.Fatalf("describe: %v", err)
	}

	var d node.Descriptor
	if err := json.Unmarshal(buf.Bytes(), &d); err != nil {
		t.Fatalf("descriptor is not JSON: %v\n%s", err, buf.String())
	}
	if d.Name != node.Name || len(d.Outputs) != 2 {
		t.Fatalf("unexpected descriptor %+v", d)
	}
	rtl, ok := d.Input(node.ParamRTLFont)
	if !ok || rtl.Default != "Vazir.ttf" {
		t.Fatalf("rtl font should default to the first font file, got %+v", rtl)
	}
	found := false
	for _, opt := range rtl.Options {
		found = found || opt == fonts.BaselineName
	}
	if !found {
		t.Fatalf("builtin fonts missing from options %v", rtl.Options)
	}
	if !strings.Contains(buf.String(), "سلام کامفی") {
		t.Fatalf("default text should be written unescaped")
	}
}

func TestDescribeFailsOnMissingFontDir(t *testing.T) {
	var buf bytes.Buffer
	if err := describe(&buf, fonts.NewLoader(filepath.Join(t.TempDir(), "none"))); err == nil {
		t.Fatalf("expected error for a missing font directory")
	}
}
