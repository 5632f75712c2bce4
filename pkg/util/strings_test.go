package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 9090, ParseIntDefault("9090", 8080))
	assert.Equal(t, 8080, ParseIntDefault("", 8080))
	assert.Equal(t, 8080, ParseIntDefault("port", 8080))
}

func TestParseBoolDefault(t *testing.T) {
	assert.True(t, ParseBoolDefault("true", false))
	assert.False(t, ParseBoolDefault(" 0 ", true))
	assert.True(t, ParseBoolDefault("maybe", true))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitList(" a:9092, ,b:9092,"))
	assert.Nil(t, SplitList(""))
}
