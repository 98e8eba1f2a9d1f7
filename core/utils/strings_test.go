package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"system_user", "system_admin"}, SplitTokens("system_user system_admin"))
	assert.Equal(t, []string{"team_user"}, SplitTokens("  team_user  "))
	assert.Nil(t, SplitTokens(""))
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueStrings([]string{"a", "b", "a", "c", "b"}))
	assert.Nil(t, UniqueStrings(nil))
}
