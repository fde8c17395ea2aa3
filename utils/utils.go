package utils

import (
	rndm "math/rand"
	"os"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// --- Mongo Filter Helpers ---

// RegexFilter builds a case-insensitive substring match on field. The needle
// is quoted so user input never acts as a pattern.
func RegexFilter(field, needle string) bson.M {
	return bson.M{field: bson.M{"$regex": regexp.QuoteMeta(needle), "$options": "i"}}
}

// --- Slice Helpers ---

// SplitTags takes a comma-separated string and returns a cleaned []string
func SplitTags(input string) []string {
	if input == "" {
		return []string{}
	}
	parts := strings.Split(input, ",")
	var tags []string
	seen := make(map[string]bool)

	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" {
			continue
		}
		tag = strings.ToLower(tag) // normalize
		if !seen[tag] {
			tags = append(tags, tag)
			seen[tag] = true
		}
	}
	return tags
}

// --- Directory Helper ---

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
