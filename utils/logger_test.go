/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerIsRegistered(t *testing.T) {
	first := NewLogger("REGISTRY")
	assert.Same(t, first, NewLogger("REGISTRY"))
	assert.Contains(t, LoggerNames(), "REGISTRY")

	assert.True(t, SetLoggerLevel("REGISTRY", "error"))
	assert.Equal(t, logrus.ErrorLevel, first.GetLevel())
	assert.False(t, SetLoggerLevel("NEVER-CREATED", "error"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("chatty"))
}

func TestLog4jFormatter(t *testing.T) {
	f := &Log4jFormatter{LoggerName: "A-VERY-LONG-LOGGER-NAME", NameWidth: 6}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "slow query",
		Data:    logrus.Fields{"z": 1, "a": "x"},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.True(t, strings.HasPrefix(line, "2025-01-02 03:04:05.000 WARNING"))
	assert.Contains(t, line, "[A-VERY]")
	assert.True(t, strings.HasSuffix(line, " : slow query a=x z=1\n"))
}

func TestConfigureConsoleOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	ConfigureConsoleOutput(&buf)
	t.Cleanup(func() {
		ConfigureConsoleOutput(os.Stdout)
		ConfigureLogLevel("info")
	})

	logger := NewLogger("OUTPUT")
	ConfigureLogLevel("warn")
	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("CORNERSTONE_UTILS_STR", "value")
	t.Setenv("CORNERSTONE_UTILS_BOOL", "false")
	t.Setenv("CORNERSTONE_UTILS_BAD", "maybe")

	assert.Equal(t, "value", EnvDefaultString("CORNERSTONE_UTILS_STR", "def"))
	assert.Equal(t, "def", EnvDefaultString("CORNERSTONE_UTILS_UNSET", "def"))
	assert.False(t, EnvDefaultBool("CORNERSTONE_UTILS_BOOL", true))
	assert.True(t, EnvDefaultBool("CORNERSTONE_UTILS_BAD", true))
	assert.Equal(t, "abc", limitRunes("abcdef", 3))
	assert.Equal(t, "ab", limitRunes("ab", 3))
}
