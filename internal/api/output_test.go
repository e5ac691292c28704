package api

import (
	"bytes"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"name": "greet", "count": 2}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatal(err)
		}
		want := "{\n  \"count\": 2,\n  \"name\": \"greet\"\n}\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatal(err)
		}
		want := "count: 2\nname: greet\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := OutputTo(&bytes.Buffer{}, "xml", data); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	t.Cleanup(func() { _ = SetOutputFormat("") })

	if err := SetOutputFormat("json"); err != nil || GetOutputFormat() != OutputFormatJSON {
		t.Errorf("json: err=%v format=%s", err, GetOutputFormat())
	}
	if err := SetOutputFormat("toml"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if err := SetOutputFormat(""); err != nil || GetOutputFormat() != DefaultOutput {
		t.Errorf("empty: err=%v format=%s", err, GetOutputFormat())
	}
}
