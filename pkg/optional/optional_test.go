package optional

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	some := Some(int64(0))
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)
	assert.False(t, some.IsZero())

	none := None[string]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.True(t, none.IsZero())
	assert.Equal(t, "fallback", none.OrElse("fallback"))
	assert.Equal(t, "x", Some("x").OrElse("fallback"))
}
