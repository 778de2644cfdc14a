package bootstrap

import (
	"testing"

	"blogsphere/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRuntime(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBPath:       "file:bootstrap_runtime?mode=memory&cache=shared",
		DBSchemaMode: "auto",
		RedisURL:     mr.Addr(),
	}

	db, client, err := InitRuntime(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	require.NotNil(t, client)
	_ = client.Close()

	cfg.RedisURL = ""
	_, client, err = InitRuntime(cfg)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestInitRuntime_BadDriver(t *testing.T) {
	_, _, err := InitRuntime(&config.Config{DBDriver: "mongodb"})
	assert.ErrorContains(t, err, "database connection failed")
}

func TestInitObservability_TracingDisabled(t *testing.T) {
	flush, err := InitObservability(&config.Config{Env: "test", LogLevel: "warn"}, "blogsphere-test")
	require.NoError(t, err)
	flush()
}
