package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Host:             "127.0.0.1",
		Port:             8080,
		LogLevel:         "INFO",
		MembersLimit:     16,
		SendBuffer:       32,
		HandshakeTimeout: 10,
		Storage:          StorageMemory,
	}
}

func TestAppConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.MembersLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.SendBuffer = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.HandshakeTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Storage = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Storage = StorageRedis
	assert.NoError(t, cfg.Validate())

	// zero members limit means unlimited rooms
	cfg = validConfig()
	cfg.MembersLimit = 0
	assert.NoError(t, cfg.Validate())
}
