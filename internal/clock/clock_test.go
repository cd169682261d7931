package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowMSMonotonic(t *testing.T) {
	c := New()
	first := c.NowMS()
	time.Sleep(2 * time.Millisecond)
	second := c.NowMS()
	assert.GreaterOrEqual(t, second, first)
}

func TestNowSDerivedFromMS(t *testing.T) {
	c := New()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, c.NowMS()/1000, c.NowS())
}
