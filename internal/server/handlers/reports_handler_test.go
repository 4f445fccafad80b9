package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagSet(t *testing.T) {
	assert.True(t, flagSet("1"))
	assert.True(t, flagSet("true"))

	assert.False(t, flagSet(""))
	assert.False(t, flagSet("0"))
	assert.False(t, flagSet("false"))
	assert.False(t, flagSet("TRUE"))
}
