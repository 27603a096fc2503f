package status

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	s := truncate(strings.Repeat("日本語", 20), 10)
	assert.True(t, utf8.ValidString(s))
	assert.LessOrEqual(t, lipgloss.Width(s), 10)
	assert.True(t, strings.HasSuffix(s, "..."))
}

func TestTruncate_ShortStringUntouched(t *testing.T) {
	assert.Equal(t, "page: intro", truncate("page: intro", 40))
}

func TestView_TruncatesMultibyteContent(t *testing.T) {
	c := New()
	c.SetSize(24, 1)
	c.SetLeftContent("page: 日本語のタイトルが長いページ")
	_ = c.SetMessage(strings.Repeat("très long été ", 10), Warning)

	view := c.View()
	assert.True(t, utf8.ValidString(view))
}
