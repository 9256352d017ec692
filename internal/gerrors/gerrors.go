// Package gerrors annotates errors with the file, line and function that produced them.
package gerrors

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

type located struct {
	err error
	pc  uintptr
}

// Location renders the recorded call site as "file.go:42 pkg.Func".
func (l located) Location() string {
	if l.pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{l.pc}).Next()
	if frame.File == "" {
		return "unknown"
	}
	loc := fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
	if frame.Function != "" {
		loc += " " + frame.Function[strings.LastIndex(frame.Function, "/")+1:]
	}
	return loc
}

func (l located) Error() string {
	loc := l.Location()
	if loc == "" {
		return l.err.Error()
	}
	return "[" + loc + "] " + l.err.Error()
}

func (l located) Unwrap() error {
	return l.err
}

// caller returns the pc of whoever called the exported constructor.
func caller() uintptr {
	var pc [1]uintptr
	if runtime.Callers(3, pc[:]) == 0 {
		return 0
	}
	return pc[0]
}

func Newf(format string, a ...interface{}) error {
	return located{err: fmt.Errorf(format, a...), pc: caller()}
}

// Wrap records the call site on err. A nil err stays nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return located{err: err, pc: caller()}
}

// Wrapf prefixes err with a message and records the call site. A nil err stays nil.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return located{err: fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), err), pc: caller()}
}
