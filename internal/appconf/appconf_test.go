package appconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Single key",
			input:    "test-key",
			expected: []string{"test-key"},
		},
		{
			name:     "Multiple keys",
			input:    "key1,key2,key3",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Keys with spaces",
			input:    " key1 , key2 , key3 ",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "Trailing comma",
			input:    "key1,",
			expected: []string{"key1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAPIKeys(tt.input))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SHUTTLE_ENV", "SHUTTLE_PORT", "SHUTTLE_DB_PATH", "SHUTTLE_API_KEYS", "SHUTTLE_RATE_LIMIT", "SHUTTLE_NATS_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "./nightshuttle.db", cfg.DBPath)
	assert.Equal(t, []string{"test"}, cfg.APIKeys)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Empty(t, cfg.NATSURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SHUTTLE_ENV", "production")
	t.Setenv("SHUTTLE_PORT", "8080")
	t.Setenv("SHUTTLE_API_KEYS", "org-key,ops-key")
	t.Setenv("SHUTTLE_RATE_LIMIT", "25")
	t.Setenv("SHUTTLE_NATS_URL", "nats://127.0.0.1:4222")

	cfg := Load()
	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"org-key", "ops-key"}, cfg.APIKeys)
	assert.Equal(t, 25, cfg.RateLimit)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATSURL)
}
