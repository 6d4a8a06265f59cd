/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
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

/*
Package logging configures the leveled logger used by the OQL tools.

The engine core is a pure library and never logs; the shell and the
translator CLI log through github.com/op/go-logging with a stderr
backend. The level defaults to NOTICE and can be overridden with the
OQL_LOG_LEVEL environment variable (CRITICAL, ERROR, WARNING, NOTICE,
INFO, DEBUG).
*/
package logging

import (
	"os"

	"github.com/op/go-logging"
)

var stderrFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.6s} %{module} ▶ %{message}`,
)

// Setup installs a stderr backend for the given module prefix and returns
// a logger for it. OQL_LOG_LEVEL overrides the default level.
func Setup(module string, defaultLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(stderrFormat)
	leveled := logging.AddModuleLevel(backend)

	switch os.Getenv("OQL_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, module)
	case "ERROR":
		leveled.SetLevel(logging.ERROR, module)
	case "WARNING":
		leveled.SetLevel(logging.WARNING, module)
	case "NOTICE":
		leveled.SetLevel(logging.NOTICE, module)
	case "INFO":
		leveled.SetLevel(logging.INFO, module)
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, module)
	default:
		leveled.SetLevel(defaultLevel, module)
	}

	logging.SetBackend(leveled)
	return logging.MustGetLogger(module)
}
