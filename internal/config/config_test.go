package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testdataPath(name string) string {
	_, f, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(f), "testdata", name)
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFromPath_YAML(t *testing.T) {
	f, err := LoadFromPath(testdataPath("eyec.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	want := &File{
		Report:         "build/trace.json",
		Compilers:      []string{"clang", "clang++"},
		Archivers:      []string{"llvm-ar"},
		NoticeInterval: "1h",
		LockTimeout:    "5s",
		LogLevel:       "info",
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	f, err := LoadFromPath(testdataPath("eyec.json"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if f.Report != "/var/tmp/eyec.json" || f.LogFormat != "json" || len(f.Compilers) != 1 {
		t.Errorf("got %+v", f)
	}
}

func TestLoad_DetectFormat(t *testing.T) {
	f, err := Load([]byte(`{"archivers":["xar"]}`), "")
	if err != nil || len(f.Archivers) != 1 {
		t.Fatalf("json detect: %+v %v", f, err)
	}
	f, err = Load([]byte("compilers: [tcc]\n"), ".conf")
	if err != nil || len(f.Compilers) != 1 || f.Compilers[0] != "tcc" {
		t.Fatalf("yaml detect: %+v %v", f, err)
	}
}

func TestResolve_Defaults(t *testing.T) {
	cwd := t.TempDir()
	cfg, err := Resolve(cwd, envMap(nil))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.ReportPath != filepath.Join(cwd, "eyec-report.json") {
		t.Errorf("ReportPath = %q", cfg.ReportPath)
	}
	if cfg.NoticeInterval != DefaultNoticeInterval || cfg.Quiet || cfg.LogLevel != "warn" || cfg.Source != "" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestResolve_FileInWorkingDir(t *testing.T) {
	cwd := t.TempDir()
	data, err := os.ReadFile(testdataPath("eyec.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cwd, DefaultFile), data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(cwd, envMap(nil))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.ReportPath != filepath.Join(cwd, "build", "trace.json") {
		t.Errorf("relative report should resolve against config dir, got %q", cfg.ReportPath)
	}
	if cfg.NoticeInterval != time.Hour || cfg.LockTimeout != 5*time.Second || cfg.LogLevel != "info" {
		t.Errorf("cfg = %+v", cfg)
	}
	if diff := cmp.Diff([]string{"clang", "clang++"}, cfg.Compilers); diff != "" {
		t.Errorf("compilers (-want +got):\n%s", diff)
	}
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	cwd := t.TempDir()
	cfg, err := Resolve(cwd, envMap(map[string]string{
		EnvConfig:    testdataPath("eyec.json"),
		EnvReport:    "/tmp/override.json",
		EnvLogFormat: "text",
		EnvQuiet:     "1",
	}))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.ReportPath != "/tmp/override.json" || cfg.LogFormat != "text" || !cfg.Quiet {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Source != testdataPath("eyec.json") {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestResolve_ExplicitMissingConfigFails(t *testing.T) {
	_, err := Resolve(t.TempDir(), envMap(map[string]string{EnvConfig: "/nonexistent/eyec.yaml"}))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestResolve_BadDuration(t *testing.T) {
	cwd := t.TempDir()
	if err := os.WriteFile(filepath.Join(cwd, DefaultFile), []byte("lock_timeout: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(cwd, envMap(nil)); err == nil {
		t.Fatal("expected error for bad lock_timeout")
	}
}

func TestResolve_QuietFalseValues(t *testing.T) {
	for _, v := range []string{"0", "false", "FALSE"} {
		cfg, err := Resolve(t.TempDir(), envMap(map[string]string{EnvQuiet: v}))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Quiet {
			t.Errorf("EYEC_QUIET=%s should not silence the notice", v)
		}
	}
}
