package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoColorStyles_RenderPlainText(t *testing.T) {
	styles := NoColorStyles()

	assert.Equal(t, "tea", styles.Match.Render("tea"))
	assert.Equal(t, "eat", styles.Query.Render("eat"))
	assert.Equal(t, "oops", styles.Error.Render("oops"))
}

func TestDefaultStyles_HeaderIsBold(t *testing.T) {
	assert.True(t, DefaultStyles().Header.GetBold())
	assert.True(t, DefaultStyles().Query.GetBold())
}

func TestGetStyles(t *testing.T) {
	assert.False(t, GetStyles(true).Header.GetBold())
	assert.True(t, GetStyles(false).Header.GetBold())
}
