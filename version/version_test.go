package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		hash    string
		want    string
	}{
		{name: "long hash", version: "v1.2.0", hash: "0123456789abcdef", want: "v1.2.0-0123456"},
		{name: "short hash", version: "v1.2.0", hash: "abc", want: "v1.2.0-abc"},
		{name: "no hash", version: "v1.2.0", hash: "", want: "v1.2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitHash = tt.version, tt.hash
			t.Cleanup(func() { Version, GitHash = "None", "None" })
			assert.Equal(t, tt.want, GetVersion())
		})
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf)
	assert.Contains(t, buf.String(), "Version:           None-None\n")
	assert.Contains(t, buf.String(), "Build Time (UTC):  None\n")
}
