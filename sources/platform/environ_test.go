package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetFallsBackWhenUnsetOrEmpty(t *testing.T) {
	assert.Equal(t, "config.yaml", Get("ENVIRON_TEST_PATH", "config.yaml"))

	t.Setenv("ENVIRON_TEST_PATH", "")
	assert.Equal(t, "config.yaml", Get("ENVIRON_TEST_PATH", "config.yaml"))

	t.Setenv("ENVIRON_TEST_PATH", "/etc/bot.yaml")
	assert.Equal(t, "/etc/bot.yaml", Get("ENVIRON_TEST_PATH", "config.yaml"))
}

func TestGetAsIntIgnoresGarbage(t *testing.T) {
	assert.Equal(t, 10, GetAsInt("ENVIRON_TEST_INT", 10))

	t.Setenv("ENVIRON_TEST_INT", "25")
	assert.Equal(t, 25, GetAsInt("ENVIRON_TEST_INT", 10))

	t.Setenv("ENVIRON_TEST_INT", "lots")
	assert.Equal(t, 10, GetAsInt("ENVIRON_TEST_INT", 10))
}

func TestGetAsBool(t *testing.T) {
	assert.False(t, GetAsBool("ENVIRON_TEST_BOOL", false))

	t.Setenv("ENVIRON_TEST_BOOL", "true")
	assert.True(t, GetAsBool("ENVIRON_TEST_BOOL", false))

	t.Setenv("ENVIRON_TEST_BOOL", "maybe")
	assert.False(t, GetAsBool("ENVIRON_TEST_BOOL", false))
}

func TestGetAsDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, GetAsDuration("ENVIRON_TEST_DURATION", "5s"))

	t.Setenv("ENVIRON_TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, GetAsDuration("ENVIRON_TEST_DURATION", "5s"))

	t.Setenv("ENVIRON_TEST_DURATION", "soon")
	assert.Equal(t, 5*time.Second, GetAsDuration("ENVIRON_TEST_DURATION", "5s"))
}
