package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppPath(t *testing.T) {
	assert.Equal(t, "/app", AppPath("https://example.com/app/"))
	assert.Equal(t, "/app", AppPath("https://example.com/app"))
	assert.Equal(t, "", AppPath("https://example.com/"))
	assert.Equal(t, "", AppPath("https://example.com"))
}

func TestSameHost(t *testing.T) {
	assert.True(t, SameHost("https://Example.com/a", "https://example.com/b"))
	assert.False(t, SameHost("https://example.com", "https://login.example.com"))
	assert.False(t, SameHost("::bad", "::bad"))
}

func TestOrigin(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080", Origin("http://127.0.0.1:8080/x/y?q=1"))
	assert.Equal(t, "", Origin("/relative"))
}
