package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{"audio", "wireless"}, SplitTags("Audio, wireless , AUDIO,"))
}

func TestRegexFilterQuotesInput(t *testing.T) {
	f := RegexFilter("title", "50% off (today)")
	inner := f["title"].(bson.M)

	assert.Equal(t, "i", inner["$options"])
	assert.Equal(t, `50% off \(today\)`, inner["$regex"])
}

func TestGenerateRandomStringLength(t *testing.T) {
	s := GenerateRandomString(10)
	assert.Len(t, s, 10)
	assert.NotEqual(t, s, GenerateRandomString(10))
}
