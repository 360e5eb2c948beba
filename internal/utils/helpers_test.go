package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"jane.doe@example.com": "j*******@example.com",
		"a@b.io":               "*@b.io",
		"  ab@x.org ":          "a*@x.org",
		"not-an-email":         "",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*********3210", MaskPhone("+919876543210"))
	assert.Equal(t, "1234", MaskPhone("1234"))
	assert.Equal(t, "", MaskPhone(""))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.FixedZone("IST", 19800))
	assert.Equal(t, "2024-05-01T05:00:00Z", FormatTime(ts))
	assert.Equal(t, "", FormatTime(time.Time{}))
	assert.Equal(t, "", FormatTimePtr(nil))
	assert.Equal(t, "2024-05-01T05:00:00Z", FormatTimePtr(&ts))
}
