package xchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		BaseURL:   "https://xchain.tokenly.com",
		APIToken:  "token",
		APISecret: "secret",
	}
	assert.NoError(t, valid.Validate())

	missingURL := valid
	missingURL.BaseURL = ""
	assert.Error(t, missingURL.Validate())

	missingToken := valid
	missingToken.APIToken = ""
	assert.Error(t, missingToken.Validate())

	missingSecret := valid
	missingSecret.APISecret = ""
	assert.Error(t, missingSecret.Validate())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://xchain.tokenly.com")
	t.Setenv(EnvAPIToken, "env-token")
	t.Setenv(EnvAPISecret, "env-secret")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://xchain.tokenly.com", cfg.BaseURL)
	assert.Equal(t, "env-token", cfg.APIToken)
	assert.Equal(t, "env-secret", cfg.APISecret)
}

func TestConfigFromEnvIncomplete(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://xchain.tokenly.com")
	t.Setenv(EnvAPIToken, "")
	t.Setenv(EnvAPISecret, "")

	_, err := ConfigFromEnv()
	assert.Error(t, err)
}
