package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-portfolio-client/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.Setup("info", "PROD", &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "/api/projects").Msg("request")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "request", line["message"])
	require.Equal(t, "/api/projects", line["path"])
	require.Equal(t, "info", line["level"])
}

func TestSetup_ConsoleInDev(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.Setup("debug", "DEV", &buf)
	require.NoError(t, err)

	logger.Debug().Msg("refreshing")
	require.Contains(t, buf.String(), "refreshing")
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := logging.Setup("loud", "DEV", nil)
	require.Error(t, err)
}
