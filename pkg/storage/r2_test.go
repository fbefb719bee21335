package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	s := &R2Storage{bucketName: "shop", publicURL: "https://cdn.example.com", keyPrefix: "products"}

	key, ok := s.KeyFromURL("https://cdn.example.com/products/abc.webp")
	assert.True(t, ok)
	assert.Equal(t, "products/abc.webp", key)

	for _, u := range []string{
		"https://cdn.example.com/",
		"https://cdn.example.com.evil.net/products/abc.webp",
		"https://other.example.com/products/abc.webp",
	} {
		_, ok := s.KeyFromURL(u)
		assert.False(t, ok, u)
	}

	_, ok = (&R2Storage{}).KeyFromURL("/products/abc.webp")
	assert.False(t, ok, "no public url configured")
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".bin", extensionFor("application/pdf"))
}
