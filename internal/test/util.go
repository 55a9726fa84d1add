package test

import (
	"fmt"
	"os"
	"testing"

	"github.com/evanw/css21/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", stringify(observed), stringify(expected))
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		color := logger.GetTerminalInfo(os.Stdout).UseColorEscapes
		t.Fatal("\n" + Diff(stringB, stringA, color))
	}
}

func stringify(value interface{}) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", value)
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}
