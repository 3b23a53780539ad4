package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"nil", nil, 0},
		{"int", 7, 7},
		{"float", float64(12), 12},
		{"json number", json.Number("42"), 42},
		{"numeric string", " 15 ", 15},
		{"decimal string", "3.0", 3},
		{"bytes", []byte("9"), 9},
		{"garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt64(tt.in))
		})
	}
}

func TestToFloat64(t *testing.T) {
	assert.Equal(t, 9.99, ToFloat64("9.99"))
	assert.Equal(t, 9.99, ToFloat64(json.Number("9.99")))
	assert.Equal(t, float64(3), ToFloat64(3))
	assert.Equal(t, float64(0), ToFloat64(nil))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "12", ToString(float64(12)))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "true", ToString(true))
}

func TestParseIDList(t *testing.T) {
	assert.Equal(t, []int64{1, 22, 333}, ParseIDList("1, 22,,333"))
	assert.Equal(t, []int64{5}, ParseIDList("0,5,x"))
	assert.Nil(t, ParseIDList(""))
}
