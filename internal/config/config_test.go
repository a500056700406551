package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputFormat != "markdown" || c.LogLevel != "warn" || c.LogFormat != "text" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.SQLDriver != "sqlite" || c.WatchDebounceMs != 300 || c.MaxRows != 0 {
		t.Fatalf("defaults = %+v", c)
	}
	if len(c.NullValues) == 0 {
		t.Fatalf("expected default null tokens")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	c := &Global{OutputFormat: "markdown", LogLevel: "warn", LogFormat: "text", SQLDriver: "sqlite"}
	for _, kv := range [][2]string{
		{"delimiter", ";"},
		{"decimal_separator", ","},
		{"max_rows", "500"},
		{"null_values", "NA, NULL"},
		{"output_format", "JSON"},
		{"sql_driver", "postgres"},
		{"watch_debounce_ms", "50"},
	} {
		if err := c.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("Set(%s): %v", kv[0], err)
		}
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := Save(&Global{MaxRows: 7}, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".dataverify", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.MaxRows != 7 {
		t.Fatalf("max_rows = %d, want 7", c.MaxRows)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("max_rows: 10\nlog_level: info\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DATAVERIFY_MAX_ROWS", "25")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.MaxRows != 25 || c.LogLevel != "info" {
		t.Fatalf("max_rows=%d log_level=%s", c.MaxRows, c.LogLevel)
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	c := &Global{}
	bad := [][2]string{
		{"delimiter", ";;"},
		{"max_rows", "-1"},
		{"output_format", "xml"},
		{"log_level", "loud"},
		{"log_format", "xml"},
		{"sql_driver", "oracle"},
		{"watch_debounce_ms", "soon"},
		{"api_key", "x"},
	}
	for _, kv := range bad {
		if err := c.Set(kv[0], kv[1]); err == nil {
			t.Fatalf("Set(%s, %s) should fail", kv[0], kv[1])
		}
	}
}

func TestTableOptions(t *testing.T) {
	c := &Global{Delimiter: "tab", DecimalSeparator: ",", ThousandsSeparator: "space", MaxRows: 3, NullValues: []string{"-"}}
	opt, err := c.TableOptions()
	if err != nil {
		t.Fatalf("TableOptions: %v", err)
	}
	if opt.Delimiter != '\t' || opt.DecimalSeparator != ',' || opt.ThousandsSeparator != ' ' || opt.MaxRows != 3 {
		t.Fatalf("options = %+v", opt)
	}
	if diff := cmp.Diff([]string{"-"}, opt.NullValues); diff != "" {
		t.Fatalf("null values mismatch (-want +got):\n%s", diff)
	}
	if opt.SheetIndex != 1 {
		t.Fatalf("sheet index = %d, want 1", opt.SheetIndex)
	}
	if _, err := (&Global{Delimiter: "ab"}).TableOptions(); err == nil {
		t.Fatalf("expected delimiter error")
	}
}

func TestSplitList(t *testing.T) {
	if diff := cmp.Diff([]string{"", "NA", "n/a"}, SplitList(",NA, n/a")); diff != "" {
		t.Fatalf("SplitList mismatch (-want +got):\n%s", diff)
	}
	if got := SplitList(""); len(got) != 0 {
		t.Fatalf("SplitList(\"\") = %#v", got)
	}
}
