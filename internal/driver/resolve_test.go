package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolve_SkipsSelf(t *testing.T) {
	root := t.TempDir()
	wrapper := writeTool(t, filepath.Join(root, "opt"), "eyec", "exit 0")
	shims := filepath.Join(root, "shims")
	if err := os.MkdirAll(shims, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(wrapper, filepath.Join(shims, "gcc")); err != nil {
		t.Fatal(err)
	}
	realTool := writeTool(t, filepath.Join(root, "usr"), "gcc", "exit 0")

	self, err := canonical(wrapper)
	if err != nil {
		t.Fatal(err)
	}
	pathEnv := strings.Join([]string{shims, filepath.Join(root, "usr")}, string(os.PathListSeparator))
	got, err := Resolve("/some/where/gcc", pathEnv, self)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want, _ := canonical(realTool)
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolve_FollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := writeTool(t, filepath.Join(root, "toolchain"), "gcc-13", "exit 0")
	bin := filepath.Join(root, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(bin, "gcc")); err != nil {
		t.Fatal(err)
	}
	got, err := Resolve("gcc", bin, "/not/us")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want, _ := canonical(target)
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolve_SkipsNonExecutable(t *testing.T) {
	root := t.TempDir()
	plain := filepath.Join(root, "a")
	if err := os.MkdirAll(plain, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(plain, "ar"), []byte("not a program"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "b", "ar"), 0o755); err != nil {
		t.Fatal(err)
	}
	pathEnv := strings.Join([]string{plain, filepath.Join(root, "b")}, string(os.PathListSeparator))
	_, err := Resolve("ar", pathEnv, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestResolve_OnlySelf(t *testing.T) {
	root := t.TempDir()
	wrapper := writeTool(t, root, "cc", "exit 0")
	self, _ := canonical(wrapper)
	if _, err := Resolve("cc", root, self); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
