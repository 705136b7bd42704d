package steward_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/houseofcat/rabbitsteward/pkg/steward"
)

func TestUniqueName(t *testing.T) {
	first := steward.UniqueName("steward-test")
	second := steward.UniqueName("steward-test")

	assert.True(t, strings.HasPrefix(first, "steward-test."))
	assert.NotEqual(t, first, second)
}
