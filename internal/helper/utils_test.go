package helper

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateUUID(t *testing.T) {
	a, err := GenerateUUID()
	if err != nil {
		t.Fatalf("GenerateUUID() failed: %v", err)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("GenerateUUID() = %q is not a uuid: %v", a, err)
	}
	b, _ := GenerateUUID()
	if a == b {
		t.Error("GenerateUUID() returned the same id twice")
	}
}

func TestPrettyPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyPrint(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatalf("PrettyPrint() failed: %v", err)
	}
	if got, want := buf.String(), "{\n  \"a\": 1\n}\n"; got != want {
		t.Errorf("PrettyPrint() = %q, want %q", got, want)
	}
}

func TestCreateFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "reports")
	if err := CreateFolder(filepath.Join(dir, "report.html")); err != nil {
		t.Fatalf("CreateFolder() failed: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("folder %s not created: %v", dir, err)
	}
	if err := CreateFolder("report.html"); err != nil {
		t.Errorf("CreateFolder() on a bare file name = %v", err)
	}
}
