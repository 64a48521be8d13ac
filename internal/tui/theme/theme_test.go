package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByNameDefaults(t *testing.T) {
	assert.Equal(t, "tokyo-night", ByName("tokyo-night").Name)
	assert.Equal(t, "flexoki-dark", ByName("nope").Name)
}

func TestCounterpart(t *testing.T) {
	for _, th := range All {
		c := Counterpart(th)
		assert.NotEqual(t, th.Dark, c.Dark, th.Name)
	}
	assert.Equal(t, "flexoki-dark", Counterpart(FlexokiLight).Name)
	assert.Equal(t, "catppuccin-latte", Counterpart(CatppuccinMocha).Name)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "flexoki-dark", Resolve("flexoki-dark", true).Name)
	assert.Equal(t, "flexoki-light", Resolve("flexoki-dark", false).Name)
	assert.Equal(t, "catppuccin-mocha", Resolve("catppuccin-latte", true).Name)
}

func TestToggle(t *testing.T) {
	prev := Active
	defer func() { Active = prev }()

	Active = FlexokiDark
	Toggle()
	assert.False(t, Active.Dark)
	Toggle()
	assert.Equal(t, "flexoki-dark", Active.Name)
}
