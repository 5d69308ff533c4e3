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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type Logger = logrus.Logger

const timestampFormat = "2006-01-02 15:04:05.000"

var (
	loggerRegistryMu sync.RWMutex
	loggerRegistry   = map[string]*logrus.Logger{}
	defaultLevel     = ParseLogLevel(EnvDefaultString("LOG_LEVEL", "info"))
	consoleLogFormat = EnvDefaultString("CONSOLE_LOG_FORMAT", "text")
	reportCaller     = EnvDefaultBool("LOG_REPORT_CALLER", true)
	consoleOutput    = io.Writer(os.Stdout)
)

// ParseLogLevel maps a level name to a logrus level, defaulting to info.
func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info", "":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// ConfigureConsoleLogFormat selects "json" or "text" for loggers created afterwards.
func ConfigureConsoleLogFormat(format string) {
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		consoleLogFormat = "json"
	} else {
		consoleLogFormat = "text"
	}
}

// ConfigureConsoleOutput redirects every registered logger, and loggers
// created afterwards, to w.
func ConfigureConsoleOutput(w io.Writer) {
	consoleOutput = w
	loggerRegistryMu.RLock()
	defer loggerRegistryMu.RUnlock()
	for _, lg := range loggerRegistry {
		lg.SetOutput(w)
	}
}

// ConfigureLogLevel sets the level of every registered logger and of loggers
// created afterwards.
func ConfigureLogLevel(levelStr string) {
	defaultLevel = ParseLogLevel(levelStr)
	loggerRegistryMu.RLock()
	defer loggerRegistryMu.RUnlock()
	for _, lg := range loggerRegistry {
		lg.SetLevel(defaultLevel)
	}
}

// SetLoggerLevel changes the level of one named logger.
func SetLoggerLevel(name string, lvlStr string) bool {
	loggerRegistryMu.RLock()
	lg, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if !ok {
		return false
	}
	lg.SetLevel(ParseLogLevel(lvlStr))
	return true
}

// LoggerNames lists the registered logger names in sorted order.
func LoggerNames() []string {
	loggerRegistryMu.RLock()
	defer loggerRegistryMu.RUnlock()
	names := make([]string, 0, len(loggerRegistry))
	for name := range loggerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewLogger returns the logger registered under name, creating it on first use.
func NewLogger(name string) *logrus.Logger {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if l, ok := loggerRegistry[name]; ok {
		return l
	}

	l := logrus.New()
	l.SetOutput(consoleOutput)
	l.SetLevel(defaultLevel)
	l.SetReportCaller(reportCaller)
	if consoleLogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap:        logrus.FieldMap{logrus.FieldKeyMsg: "message"},
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	} else {
		l.SetFormatter(&Log4jFormatter{LoggerName: name, NameWidth: 10})
	}
	loggerRegistry[name] = l
	return l
}

// Log4jFormatter renders "time LEVEL pid --- [name] file:line : message k=v".
type Log4jFormatter struct {
	LoggerName string
	NameWidth  int
}

func (f *Log4jFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteString(fmt.Sprintf(" %5s %-6d --- [%*s]", strings.ToUpper(entry.Level.String()), os.Getpid(), f.NameWidth, limitRunes(f.LoggerName, f.NameWidth)))
	if entry.Caller != nil {
		b.WriteString(fmt.Sprintf(" %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line))
	}
	b.WriteString(" : ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", k, entry.Data[k]))
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func limitRunes(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}

func EnvDefaultString(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}
