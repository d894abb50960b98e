package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "k")
	t.Setenv("APP_FOLDER", "/srv/app")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, "/srv/app/project/static", cfg.StaticFolder)
	assert.Equal(t, "/srv/app/project/media", cfg.MediaFolder)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.EqualValues(t, 16<<20, cfg.MaxUploadBytes())
	assert.Nil(t, cfg.AllowedOrigins())
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "placeholder") // Restored after the test
	require.NoError(t, os.Unsetenv("SECRET_KEY"))
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "sqlite:///database.db", cfg.DSN())

	cfg = &Config{DBUser: "lib", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "library"}
	assert.Equal(t, "mysql://lib:pw@tcp(db:3306)/library?parseTime=true", cfg.DSN())

	cfg.DatabaseURL = "postgres://lib@localhost/library"
	assert.Equal(t, "postgres://lib@localhost/library", cfg.DSN())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: " https://a.example , https://b.example,"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
