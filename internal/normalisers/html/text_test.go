package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"paragraph", "<p>Hello World</p>", "Hello World"},
		{"nested tags", "<div><p><strong>Bold</strong> text</p></div>", "Bold text"},
		{"script removed", "<p>Before</p><script>alert('x');</script><p>After</p>", "Before\nAfter"},
		{"style removed", "<style>.foo { color: red; }</style><p>Content</p>", "Content"},
		{"head removed", "<head><title>T</title></head><body>Content</body>", "Content"},
		{"br", "Line 1<br>Line 2<br/>Line 3", "Line 1\nLine 2\nLine 3"},
		{"blocks", "<div>Block 1</div><div>Block 2</div>", "Block 1\nBlock 2"},
		{"entities", "<p>&lt;tag&gt; &amp; &quot;quotes&quot;&nbsp;ok</p>", "<tag> & \"quotes\" ok"},
		{"comments", "<p>Before</p><!-- note --><p>After</p>", "Before\nAfter"},
		{"list items", "<ul><li>Item 1</li><li>Item 2</li></ul>", "Item 1\nItem 2"},
		{"headings", "<h1>Title</h1><h2>Sub</h2><p>Body</p>", "Title\nSub\nBody"},
		{"link text kept", `<a href="https://example.com">Click here</a>`, "Click here"},
		{"image dropped", `<p>See <img src="a.png" alt="A"> here</p>`, "See here"},
		{"table cells spaced", "<table><tr><td>Cell 1</td><td>Cell 2</td></tr></table>", "Cell 1 Cell 2"},
		{"svg removed", `<p>Before</p><svg width="1"><circle cx="5"/></svg><p>After</p>`, "Before\nAfter"},
		{"plain text untouched", "just words", "just words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToText(tt.input))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "My Notes & More", Title("<html><head><title> My Notes &amp; More </title></head></html>"))
	assert.Empty(t, Title("<p>no title</p>"))
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("  <p>hi</p>"))
	assert.True(t, LooksLikeHTML("<ul><li>a</li></ul>"))
	assert.False(t, LooksLikeHTML("plain text"))
	assert.False(t, LooksLikeHTML("a < b and c > d"))
	assert.False(t, LooksLikeHTML("<not closed"))
}
