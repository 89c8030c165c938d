package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			log, err := New(env)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

// Property: every log entry written through a JSON core decodes as a JSON
// object carrying the message.
func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("entries are valid JSON with the message intact", prop.ForAll(
		func(message string) bool {
			var buf bytes.Buffer

			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(zapcore.EncoderConfig{
					MessageKey:  "message",
					LevelKey:    "level",
					EncodeLevel: zapcore.LowercaseLevelEncoder,
					LineEnding:  zapcore.DefaultLineEnding,
				}),
				zapcore.AddSync(&buf),
				zapcore.DebugLevel,
			)

			log := zap.New(core)
			log.Info(message)
			log.Sync()

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}
			return entry["message"] == message
		},
		gen.RegexMatch(`[a-zA-Z0-9 ]{0,40}`),
	))

	properties.TestingRun(t)
}
