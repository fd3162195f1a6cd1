package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer_Text(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, "Broken pipe", s.Text("<b>Broken</b> pipe"))
	assert.Equal(t, "", s.Text(`<script>alert("x")</script>`))
	assert.Equal(t, "Roads & bridges", s.Text("  Roads & bridges "))
	assert.Nil(t, s.TextPtr(nil))

	addr := "<i>12 Main St</i>"
	assert.Equal(t, "12 Main St", *s.TextPtr(&addr))
}
