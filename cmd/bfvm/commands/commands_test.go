package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTemp: %v", err)
	}
	return path
}

func TestCheckPrintsIR(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "hello.bf", "++[>+++<-]>.")
	if code := Check([]string{path}); code != 0 {
		t.Fatalf("Check returned %d, want 0", code)
	}
}

func TestCheckMissingFile(t *testing.T) {
	if code := Check([]string{filepath.Join(t.TempDir(), "missing.bf")}); code == 0 {
		t.Fatal("Check should fail on a missing file")
	}
}

func TestRunExecutesProgram(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "cell.bf", "++++++++[>++++++++<-]>+.")
	if code := Run([]string{path}); code != 0 {
		t.Fatalf("Run returned %d, want 0", code)
	}
}

func TestRunUnbalancedBrackets(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "bad.bf", "[+")
	if code := Run([]string{path}); code == 0 {
		t.Fatal("Run should fail on unbalanced brackets")
	}
}

func TestBenchReportsThroughput(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "bench.bf", "+[-]")
	if code := Bench([]string{path, "--iters=2"}); code != 0 {
		t.Fatalf("Bench returned %d, want 0", code)
	}
}

func TestTestCommandPassAndFail(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "ok.bf", "++++++++[>+++++++++<-]>.")
	writeTemp(t, dir, "ok.expected", "\x48\n")
	writeTemp(t, dir, "bad.bf", "+.")
	writeTemp(t, dir, "bad.expected", "\x02\n")

	if code := Test([]string{dir}); code == 0 {
		t.Fatal("Test should report failure when one case mismatches")
	}
}

func TestTestCommandAllPass(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "plus.bf", "+.")
	writeTemp(t, dir, "plus.expected", "\x01\n")

	if code := Test([]string{dir}); code != 0 {
		t.Fatalf("Test returned %d, want 0", code)
	}
}
