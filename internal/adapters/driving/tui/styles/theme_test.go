package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)

	assert.NotEmpty(t, theme.Primary)
	assert.NotEmpty(t, theme.Foreground)
	assert.NotEmpty(t, theme.Error)
}

func TestNewStylesNilThemeFallsBack(t *testing.T) {
	s := NewStyles(nil)
	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()
	require.NotNil(t, s)
	assert.True(t, s.Title.GetBold())
}
