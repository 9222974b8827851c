package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/eduadmin/pkg/pointer"
)

func TestPointer(t *testing.T) {
	p := pointer.To(false)
	assert.NotNil(t, p)
	assert.False(t, *p)

	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, "active", pointer.Val(pointer.To("active")))

	assert.Nil(t, pointer.NonZero(""))
	assert.Equal(t, "expired", *pointer.NonZero("expired"))
}
