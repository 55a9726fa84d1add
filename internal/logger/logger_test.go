package logger_test

import (
	"testing"

	"github.com/evanw/css21/internal/logger"
	"github.com/evanw/css21/internal/test"
)

func TestMsgString(t *testing.T) {
	source := test.SourceForTest("a {\n  color: ;\n}")
	msg := logger.Msg{
		Kind:     logger.Error,
		Text:     "expected a property value",
		Location: logger.LocationOrNil(&source, logger.Range{Loc: logger.Loc{Start: 13}, Len: 1}),
	}

	test.AssertEqualWithDiff(t, msg.String(logger.StderrOptions{IncludeSource: true}, logger.TerminalInfo{}),
		"<stdin>:2:9: error: expected a property value\n  color: ;\n         ^\n")
	test.AssertEqualWithDiff(t, msg.String(logger.StderrOptions{}, logger.TerminalInfo{}),
		"<stdin>: error: expected a property value\n")

	msg.Location = nil
	msg.Kind = logger.Warning
	test.AssertEqualWithDiff(t, msg.String(logger.StderrOptions{}, logger.TerminalInfo{}),
		"warning: expected a property value\n")
}

func TestMsgStringTabs(t *testing.T) {
	source := test.SourceForTest("\tfoo bar")
	msg := logger.Msg{
		Kind:     logger.Error,
		Text:     "oops",
		Location: logger.LocationOrNil(&source, logger.Range{Loc: logger.Loc{Start: 5}, Len: 3}),
	}
	test.AssertEqualWithDiff(t, msg.String(logger.StderrOptions{IncludeSource: true}, logger.TerminalInfo{}),
		"<stdin>:1:5: error: oops\n  foo bar\n      ~~~\n")
}

func TestLineColumnTracker(t *testing.T) {
	source := test.SourceForTest("a\r\nb\fc\néx")
	tracker := logger.MakeLineColumnTracker(&source)

	expect := func(offset int32, line int32, column int32) {
		t.Helper()
		l, c := tracker.LineColumn(logger.Loc{Start: offset})
		test.AssertEqual(t, l, line)
		test.AssertEqual(t, c, column)
	}

	expect(0, 1, 1)
	expect(1, 1, 2)
	expect(3, 2, 1)
	expect(5, 3, 1)
	expect(7, 4, 1)
	expect(9, 4, 2)

	// Going backward starts over from the beginning
	expect(4, 2, 2)
}

func TestDeferLogKeepsOrder(t *testing.T) {
	log := logger.NewDeferLog()
	source := test.SourceForTest("abc")
	log.AddError(&source, logger.Loc{Start: 2}, "second in the file")
	log.AddWarning(&source, logger.Loc{Start: 0}, "first in the file")
	test.AssertEqual(t, log.HasErrors(), true)

	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 2)
	test.AssertEqual(t, msgs[0].Text, "second in the file")
	test.AssertEqual(t, msgs[1].Text, "first in the file")
}
