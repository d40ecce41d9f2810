package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "midnight-oud", Slugify("Midnight Oud"))
	assert.Equal(t, "4-star-fragrance", Slugify(" 4 Star  Fragrance! "))
	assert.Equal(t, "eau-de-parfum-50ml", Slugify("Eau de Parfum (50ml)"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestUUIDint64(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.Greater(t, id, int64(0))
		assert.False(t, seen[id], "duplicate id")
		seen[id] = true
	}
}

func TestSha256HashWithSalt(t *testing.T) {
	a := Sha256HashWithSalt("secret", "salt1")
	b := Sha256HashWithSalt("secret", "salt2")
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Sha256HashWithSalt("secret", "salt1"))
}
