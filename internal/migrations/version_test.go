package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name        string
		versionStr  string
		expected    float64
		expectError bool
	}{
		{
			name:       "valid version with v prefix",
			versionStr: "v2.1",
			expected:   2.0,
		},
		{
			name:       "valid version without v prefix",
			versionStr: "4.0",
			expected:   4.0,
		},
		{
			name:       "major version only",
			versionStr: "5",
			expected:   5.0,
		},
		{
			name:        "empty string",
			versionStr:  "",
			expectError: true,
		},
		{
			name:        "invalid format",
			versionStr:  "invalid",
			expectError: true,
		},
		{
			name:        "non-numeric major version",
			versionStr:  "abc.1",
			expectError: true,
		},
		{
			name:       "version with multiple dots",
			versionStr: "1.2.3",
			expected:   1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseVersion(tt.versionStr)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestGetCurrentCodeVersion(t *testing.T) {
	version, err := GetCurrentCodeVersion()

	require.NoError(t, err)
	assert.Equal(t, 2.0, version)
}
