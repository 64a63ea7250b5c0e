// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package native

import "fmt"

// Code classifies a native failure.
type Code int

// Failure codes.
const (
	// The input file does not exist.
	CodeNotFound Code = iota + 1
	// The input is malformed or truncated.
	CodeParse
	// The library recognized a construct that it cannot handle.
	CodeUnsupported
	// A handle was nil, unknown or already released.
	CodeInvalidHandle
	// Anything else (e.g., allocation failure).
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeNotFound:
		return "not found"
	case CodeParse:
		return "parse error"
	case CodeUnsupported:
		return "unsupported"
	case CodeInvalidHandle:
		return "invalid handle"
	case CodeInternal:
		return "internal error"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Failure is the error type returned by Library methods.
// Msg carries the diagnostic produced by the native
// library, if any.
type Failure struct {
	Code Code
	Msg  string
}

// Fail returns a *Failure with the given code and message.
func Fail(code Code, msg string) *Failure { return &Failure{code, msg} }

func (f *Failure) Error() string {
	if f.Msg == "" {
		return "native: " + f.Code.String()
	}
	return "native: " + f.Code.String() + ": " + f.Msg
}
