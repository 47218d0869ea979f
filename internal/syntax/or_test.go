package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOr(t *testing.T) {
	assert.Equal(t, "", Or([]int{}))
	assert.Equal(t, "1", Or([]int{1}))
	assert.Equal(t, "1 or 2", Or([]int{1, 2}))
	assert.Equal(t, "1, 2, or 3", Or([]int{1, 2, 3}))
	assert.Equal(t, "1, 2, 3, or 4", Or([]int{1, 2, 3, 4}))
}

func TestOrTokenKinds(t *testing.T) {
	assert.Equal(t, "name, colon, or end of line", Or([]TokenKind{Name, Colon, Eol}))
}
