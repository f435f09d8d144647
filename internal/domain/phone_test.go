package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "7875551234", NormalizePhone("787-555-1234"))
	assert.Equal(t, "17875551234", NormalizePhone("+1 (787) 555 1234"))
	assert.Equal(t, "", NormalizePhone("abc"))
}

func TestPhonesMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"787-555-1234", "7875551234", true},
		{"7875551234", "7875551234", true},
		{"+1 787 555 1234", "7875551234", true},
		{"7875551234", "17875551234", true},
		{"0000000000", "7875551234", false},
		{"5551234", "7875551234", false},
		{"5551234", "17875551234", false},
		{"555-1234", "5551234", true},
		{"8875551234", "7875551234", false},
		{"551234", "7875551234", false},
		{"", "7875551234", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, PhonesMatch(tt.a, tt.b))
		})
	}
}

func TestPhoneSuffix(t *testing.T) {
	assert.Equal(t, "5551234", PhoneSuffix("+1 787-555-1234"))
	assert.Equal(t, "12345", PhoneSuffix("12345"))
}

func TestNewID(t *testing.T) {
	id := NewID(PrefixAmbulantClient)
	assert.True(t, strings.HasPrefix(id, "L"))
	assert.Len(t, id, 9)
	assert.Equal(t, strings.ToUpper(id), id)
	assert.NotEqual(t, id, NewID(PrefixAmbulantClient))
}
