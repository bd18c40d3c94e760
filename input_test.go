package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/touchbrawler/common"
)

func TestTouchInputFlipsY(t *testing.T) {
	in := NewTouchInput(800, 600)
	assert.Equal(t, common.Vec2{X: 10, Y: 580}, in.toScreen(10, 20))
}

func TestTouchInputReset(t *testing.T) {
	in := NewTouchInput(800, 600)
	in.keyFingerDown = true
	in.Reset()
	assert.False(t, in.keyFingerDown)
	assert.Empty(t, in.Contacts())
}
