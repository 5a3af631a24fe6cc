package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RequiresSecretAndDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tourlog")
	t.Setenv("JWT_SECRET", "")

	_, err := Parse()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")

	_, err = Parse()
	assert.Error(t, err)
}

func TestParse_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tourlog")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.SeedDatabase)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.LoginBurst)
	assert.False(t, cfg.IsProduction())
}

func TestParse_SeedNeedsPassword(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tourlog")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SEED_DATABASE", "true")
	t.Setenv("SEED_ADMIN_PASSWORD", "")

	_, err := Parse()
	assert.Error(t, err)

	t.Setenv("SEED_ADMIN_PASSWORD", "changeme")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.SeedDatabase)
	assert.Equal(t, "admin", cfg.SeedAdminUsername)
}

func TestParse_CORSList(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tourlog")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
