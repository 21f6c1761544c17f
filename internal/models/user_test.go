package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanEdit(t *testing.T) {
	assert.True(t, CanEdit(RoleEditor))
	assert.True(t, CanEdit(RoleAdmin))
	assert.False(t, CanEdit(RoleUser))
	assert.False(t, CanEdit(""))
}
