// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package trace provides the debug logger for pipe state transitions.
//
// Tracing is off unless the PIPE_TRACE environment variable parses as
// true. When off, callers should check [Enabled] before building log
// fields so the hot paths stay allocation-free.
package trace

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Enabled reports whether transition tracing was requested via PIPE_TRACE.
var Enabled bool

var logger *logrus.Logger

func init() {
	v, err := strconv.ParseBool(os.Getenv("PIPE_TRACE"))
	if err == nil {
		Enabled = v
	}
	logger = logrus.New()
	if Enabled {
		logger.SetLevel(logrus.DebugLevel)
	}
}

// Logger returns the shared trace logger instance.
func Logger() *logrus.Logger {
	return logger
}
