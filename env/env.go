// Package env reads CLI defaults from the environment and an optional .env file.
package env

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ByLCY/persiantext/logging"
)

// Variables understood by the CLI.
const (
	FontsDir = "PERSIANTEXT_FONTS_DIR"
	OutDir   = "PERSIANTEXT_OUT_DIR"
	Verbose  = "PERSIANTEXT_VERBOSE"
)

// Load loads environment variables from the given .env files (default ".env").
// Variables already set in the process environment win.
func Load(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logging.Logger().Debug("未找到 .env 文件", slog.Any("err", err))
	}
}

// StringVariable returns the value of an environment variable or a default value.
func StringVariable(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

// BoolVariable returns the boolean value of an environment variable; unset or
// unparsable values give defaultValue.
func BoolVariable(name string, defaultValue bool) bool {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logging.Logger().Warn("环境变量不是布尔值，使用默认值", "name", name, "value", value)
		return defaultValue
	}
	return b
}
