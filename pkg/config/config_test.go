package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("PAGE_SIZE_MAX", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.NotEmpty(t, cfg.ServerPort)
	assert.Equal(t, 50, cfg.PageSizeMax)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Firestore")
	t.Setenv("FIREBASE_PROJECT_ID", "grow-with-me")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("MATCH_WATCHER_ENABLED", "false")
	t.Setenv("PAGE_SIZE_MAX", "25")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BUCKET", "avatars")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_PATH", "/etc/sa.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreFirestore, cfg.StoreDriver)
	assert.Equal(t, "grow-with-me", cfg.FirebaseProject)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.MatchWatcherEnabled)
	assert.Equal(t, 25, cfg.PageSizeMax)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "avatars", cfg.StorageBucket)
	assert.Equal(t, "/etc/sa.json", cfg.ServiceAccountPath)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"firestore without project", map[string]string{"STORE_DRIVER": "firestore", "FIREBASE_PROJECT_ID": ""}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "postgres"}},
		{"non-positive page size", map[string]string{"STORE_DRIVER": "memory", "PAGE_SIZE_MAX": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, (&Config{Environment: "development"}).IsDevelopment())
	assert.False(t, (&Config{Environment: "production"}).IsDevelopment())
}
