// Copyright 2024 The Buddyalloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package buddy

// logging functions

import (
	"fmt"

	"github.com/intuitivelabs/slog"
)

// NAME identifies this package in log message prefixes.
const NAME = "buddy"

const (
	pDBG   = "DBG: " + NAME + ": "
	pWARN  = "WARNING: " + NAME + ": "
	pERR   = "ERROR: " + NAME + ": "
	pBUG   = "BUG: " + NAME + ": "
	pPANIC = NAME + ": "
)

// Log is the package's generic log, overridable by callers that want
// their own sink/level/options.
var Log slog.Log = slog.New(slog.LDBG, slog.LbackTraceS|slog.LlocInfoS,
	slog.LStdErr)

// WARNon reports whether logging at LWARN level is enabled.
func WARNon() bool {
	return Log.WARNon()
}

// WARN logs a warning message.
func WARN(f string, a ...interface{}) {
	Log.LLog(slog.LWARN, 1, pWARN, f, a...)
}

// ERRon reports whether logging at LERR level is enabled.
func ERRon() bool {
	return Log.ERRon()
}

// ERR logs an error message.
func ERR(f string, a ...interface{}) {
	Log.LLog(slog.LERR, 1, pERR, f, a...)
}

// BUG logs a bug message.
func BUG(f string, a ...interface{}) {
	Log.LLog(slog.LBUG, 1, pBUG, f, a...)
}

// PANIC logs and then panics, used for corruption the allocator
// detected in its own metadata (e.g. a canary mismatch).
func PANIC(f string, a ...interface{}) {
	s := fmt.Sprintf(pPANIC+f, a...)
	Log.LLog(slog.LBUG, 1, "", "%s", s)
	panic(s)
}
