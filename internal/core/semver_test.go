package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSemanticVersion(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1.0.0", true},
		{"0.0.0", true},
		{"10.20.30", true},
		{"1.0.0-alpha.1", true},
		{"1.0.0-0", true},
		{"1.0.0-0a", true},
		{"1.0.0-alpha-beta", true},
		{"1.0.0-x.7.z.92", true},
		{"1.2.3+b.1", true},
		{"1.2.3+build.1", true},
		{"1.2.3+001", true},
		{"1.0.0-rc.1+build.123", true},
		{"99999999999999999999999.0.0", true},
		{"01.0.0", false},
		{"1.01.0", false},
		{"2019.12.01", false},
		{"1.0.0-01", false},
		{"1.0.0-alpha..1", false},
		{"1.0.0-", false},
		{"1.0.0+", false},
		{"1.0.0+build..1", false},
		{"1.0.0-alpha_1", false},
		{"v1.2.3", false},
		{"1.2", false},
		{"1.2.3.4", false},
		{" 1.2.3", false},
		{"1.2.3 ", false},
		{"1.2.3\n", false},
		{"latest", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSemanticVersion(tt.value))
		})
	}
}
