package exitcode

import (
	"errors"
)

// Exit statuses of the command-line tool
const (
	Success = 0

	// At least one input had a parse error
	ParseErrors = 1

	// Reading input, loading the config, writing output, or the command line
	// itself failed
	Failure = 2
)

// Errors that pick their own exit status
type Coder interface {
	error
	ExitCode() int
}

// Cases:
//
//	nil => Success
//	errors implementing Coder => value returned by ExitCode
//	all other errors => Failure
func Get(err error) int {
	if err == nil {
		return Success
	}

	if coder := Coder(nil); errors.As(err, &coder) {
		return coder.ExitCode()
	}

	return Failure
}

// Wraps an error in a Coder. The message and the error chain are unchanged.
func Set(err error, code int) error {
	if err == nil {
		return nil
	}
	return coder{err, code}
}

var errReported = errors.New("already reported")

// Returns an error for problems that were already printed as diagnostics.
// The caller should exit with "code" without printing anything else.
func Reported(code int) error {
	return coder{errReported, code}
}

func IsReported(err error) bool {
	return errors.Is(err, errReported)
}

var _ Coder = coder{}

type coder struct {
	error
	int
}

func (co coder) ExitCode() int {
	return co.int
}

func (co coder) Unwrap() error {
	return co.error
}
