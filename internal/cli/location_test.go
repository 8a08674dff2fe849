package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Location
		wantErr  bool
	}{
		{"bare path", "src/main.go", Location{Path: "src/main.go"}, false},
		{"path and line", "src/main.go:12", Location{Path: "src/main.go", Line: 12}, false},
		{"path line column", "src/file.ts:10:5", Location{Path: "src/file.ts", Line: 10, Column: 5}, false},
		{"windows drive", `c:\work\x.txt:10`, Location{Path: `c:\work\x.txt`, Line: 10}, false},
		{"windows drive forward slash", "C:/work/x.txt:3:7", Location{Path: "C:/work/x.txt", Line: 3, Column: 7}, false},
		{"absolute path", "/tmp/a.txt:1:1", Location{Path: "/tmp/a.txt", Line: 1, Column: 1}, false},
		{"empty path", ":::bad", Location{}, true},
		{"too many segments", "a:1:2:3", Location{}, true},
		{"non-numeric line", "a.txt:x", Location{}, true},
		{"zero line", "a.txt:0", Location{}, true},
		{"negative column", "a.txt:3:-1", Location{}, true},
		{"empty string", "", Location{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLocation(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
