package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"paragraphs", "<p>Great movie.</p><p>Would <b>not</b> watch again!</p>", "Great movie. Would not watch again!"},
		{"entities", "<p>Tom &amp; Jerry &lt;3</p>", "Tom & Jerry <3"},
		{"script skipped", "<div>ok<script>alert('x')</script><style>p{}</style></div>", "ok"},
		{"title in head skipped", "<html><head><title>T</title></head><body>body text</body></html>", "body text"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("<i>fine</i>", "")
	require.NoError(t, err)
	assert.Equal(t, "<i>fine</i>", got)

	got, err = Normalize("<i>fine</i>", "HTML")
	require.NoError(t, err)
	assert.Equal(t, "fine", got)

	_, err = Normalize("x", "markdown")
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}
