package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeEnv(t *testing.T) {
	const key = "_SURVEY_TEST_SAFEENV"
	t.Setenv(key, "")
	assert.Equal(t, "fallback", SafeEnv(key, "fallback"))
	t.Setenv(key, "value")
	assert.Equal(t, "value", SafeEnv(key, "fallback"))
}

func TestEnvInt(t *testing.T) {
	const key = "_SURVEY_TEST_INT"
	t.Setenv(key, "2010")
	assert.Equal(t, 2010, EnvInt(key, 2008))
	t.Setenv(key, "abc")
	assert.Equal(t, 2008, EnvInt(key, 2008))
}

func TestEnvDuration(t *testing.T) {
	const key = "_SURVEY_TEST_DURATION"
	t.Setenv(key, "90m")
	assert.Equal(t, 90*time.Minute, EnvDuration(key, time.Hour))
	t.Setenv(key, "soon")
	assert.Equal(t, time.Hour, EnvDuration(key, time.Hour))
}

func TestEnvList(t *testing.T) {
	const key = "_SURVEY_TEST_LIST"
	t.Setenv(key, " http://a.local, ,http://b.local ")
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, EnvList(key, nil))
	t.Setenv(key, "")
	assert.Equal(t, []string{"*"}, EnvList(key, []string{"*"}))
}
