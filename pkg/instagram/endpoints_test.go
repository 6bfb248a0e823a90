package instagram

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileURL(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected string
	}{
		{"simple username", "testuser", "https://www.instagram.com/testuser/"},
		{"username with underscore", "test_user", "https://www.instagram.com/test_user/"},
		{"username with dots", "test.user", "https://www.instagram.com/test.user/"},
		{"empty username", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ProfileURL(BaseURL, tt.username)
			assert.Equal(t, tt.expected, result)

			if result != "" {
				_, err := url.Parse(result)
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfileURLTrimsBase(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080/alice/", ProfileURL("http://127.0.0.1:8080/", "alice"))
	assert.Equal(t, "http://127.0.0.1:8080/alice/", ProfileURL("http://127.0.0.1:8080", "alice"))
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected bool
	}{
		{"valid lowercase", "testuser", true},
		{"valid with numbers", "user123", true},
		{"valid with underscore", "test_user", true},
		{"valid with period", "test.user", true},
		{"valid mixed case", "TestUser", true},
		{"max length", strings.Repeat("a", 30), true},
		{"too long", strings.Repeat("a", 31), false},
		{"empty", "", false},
		{"with space", "test user", false},
		{"with at sign", "@testuser", false},
		{"with hyphen", "test-user", false},
		{"with slash", "test/user", false},
		{"unicode", "tëst", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidUsername(tt.username))
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "testuser", "testuser"},
		{"leading at", "@testuser", "testuser"},
		{"trailing slash", "testuser/", "testuser"},
		{"trailing slashes and spaces", "testuser/ / ", "testuser"},
		{"surrounding whitespace", "  @testuser  ", "testuser"},
		{"only at", "@", ""},
		{"empty", "", ""},
		{"inner at kept", "test@user", "test@user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeUsername(tt.input))
		})
	}
}
