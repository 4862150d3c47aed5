package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `validate:"notblank,max=5"`
	Minutes int    `validate:"min=1,max=9"`
}

func TestNotBlank(t *testing.T) {
	t.Parallel()

	require.NoError(t, Var("Launch", "notblank"))
	require.Error(t, Var("   ", "notblank"))
	require.Error(t, Var("", "notblank"))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	err := Struct(sample{Name: " ", Minutes: 12})
	require.Error(t, err)
	assert.Equal(t, "Name failed notblank; Minutes failed max=9", Describe(err))

	assert.Empty(t, Describe(nil))
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}
