package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetup_JSONWithAttributes(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := Setup(&Options{JSON: true, Service: "linguachat", Version: "test", Output: &buf})

	// Act
	logger.Info("hello", "k", "v")

	// Assert
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if record["service"] != "linguachat" || record["version"] != "test" || record["k"] != "v" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestSetup_DebugLevel(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "info by default", debug: false, wantDebug: false},
		{name: "debug when enabled", debug: true, wantDebug: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Setup(&Options{Debug: test.debug, Output: &buf})

			logger.Debug("debug-line")

			if got := strings.Contains(buf.String(), "debug-line"); got != test.wantDebug {
				t.Errorf("debug line logged = %v, want %v", got, test.wantDebug)
			}
		})
	}
}
