package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishfarm-bot/internal/keyboard"
)

func TestRenderMarkupInline(t *testing.T) {
	kb := keyboard.Inline(
		keyboard.Row(
			keyboard.Button{Text: "North", Data: "pond_POND-1"},
			keyboard.Button{Text: "South", Data: "pond_POND-2"},
		),
		keyboard.Row(keyboard.Button{Text: "❌ Cancel", Data: "cancel_op"}),
	)

	m := renderMarkup(kb)
	require.NotNil(t, m)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, "pond_POND-1", m.InlineKeyboard[0][0].Data)
	assert.Equal(t, "South", m.InlineKeyboard[0][1].Text)
	assert.Equal(t, "cancel_op", m.InlineKeyboard[1][0].Data)
	assert.Empty(t, m.ReplyKeyboard)
}

func TestRenderMarkupReplyWithContact(t *testing.T) {
	kb := keyboard.Contact("📱 Share my phone")

	m := renderMarkup(kb)
	require.NotNil(t, m)
	require.Len(t, m.ReplyKeyboard, 1)
	assert.True(t, m.ReplyKeyboard[0][0].Contact)
	assert.True(t, m.ResizeKeyboard)
	assert.Empty(t, m.InlineKeyboard)
}

func TestRenderMarkupRemove(t *testing.T) {
	m := renderMarkup(keyboard.Remove())
	require.NotNil(t, m)
	assert.True(t, m.RemoveKeyboard)
	assert.Empty(t, m.InlineKeyboard)
	assert.Empty(t, m.ReplyKeyboard)
}

func TestRenderMarkupNil(t *testing.T) {
	assert.Nil(t, renderMarkup(nil))
}
