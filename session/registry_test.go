/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Add("a"))
	assert.False(t, r.Add("a"))
	assert.True(t, r.Add("b"))
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Contains("a"))

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"))
	assert.False(t, r.Remove("never"))
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.Contains("a"))
}
