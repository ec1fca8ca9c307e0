package validation

import (
	"testing"

	"quizforge/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestIsULID(t *testing.T) {
	assert.True(t, IsULID(util.NewULID()))
	assert.True(t, IsULID("01HZXK2V7N8Q4R5T6Y7W8X9Z0A"))

	assert.False(t, IsULID(""))
	assert.False(t, IsULID("not-a-ulid"))
	assert.False(t, IsULID("01HZXK2V7N8Q4R5T6Y7W8X9Z0"))   // too short
	assert.False(t, IsULID("01HZXK2V7N8Q4R5T6Y7W8X9Z0AB")) // too long
}

func TestULIDParam(t *testing.T) {
	assert.NoError(t, ULIDParam("quiz_id", util.NewULID()))
	assert.Error(t, ULIDParam("quiz_id", "42"))
}
