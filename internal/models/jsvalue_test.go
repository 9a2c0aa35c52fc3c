package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{"", false},
		{"x", true},
		{json.Number("0"), false},
		{json.Number("0.5"), true},
		{false, false},
		{0, false},
		{3, true},
		{[]any{}, true},
		{NewRecord(), true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Truthy(c.in), "%#v", c.in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1", FormatNumber(1))
	assert.Equal(t, "1.5", FormatNumber(1.5))
	assert.Equal(t, "-20", FormatNumber(-20))
	assert.Equal(t, "0.000001", FormatNumber(0.000001))
	assert.Equal(t, "1e-7", FormatNumber(1e-7))
	assert.Equal(t, "1e+21", FormatNumber(1e21))
	assert.Equal(t, "123456789012345680000", FormatNumber(123456789012345678901))
}
