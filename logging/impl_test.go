package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.viam.com/test"
)

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualParts := strings.Split(strings.TrimSuffix(output, "\n"), "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	// Use the length of the first string as a weak verification of checking that the result looks like a date.
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	// Log level.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])
	// Logger name.
	test.That(t, actualParts[2], test.ShouldEqual, expectedParts[2])

	// Filename:line_number, only the filename is compared.
	actualFilename, _, found := strings.Cut(actualParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, _ := strings.Cut(expectedParts[3], ":")
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)

	test.That(t, actualParts[4:], test.ShouldResemble, expectedParts[4:])
}

func TestConsoleOutputFormat(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := NewBlankLogger("impl")
	logger.AddAppender(NewWriterAppender(notStdout))

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	impl	logging/impl_test.go:42	impl Info log`)

	logger.Infof("impl %s log", "Infof")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	impl	logging/impl_test.go:46	impl Infof log`)

	logger.Infow("impl logw", "key", "value", "count", 2)
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	impl	logging/impl_test.go:50	impl logw	{"key":"value","count":2}`)
}

func TestLevels(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := NewBlankLogger("levels")
	logger.AddAppender(NewWriterAppender(notStdout))
	logger.SetLevel(WARN)

	logger.Debug("dropped")
	logger.Info("dropped")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	logger.Warn("kept")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	WARN	levels	logging/impl_test.go:66	kept`)

	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	logger.Debugf("now %d", 1)
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	DEBUG	levels	logging/impl_test.go:72	now 1`)
}

func TestSublogger(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := NewBlankLogger("parent")
	logger.AddAppender(NewWriterAppender(notStdout))

	sub := logger.Sublogger("child")
	sub.Errorw("failed", "idx", 3)
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	ERROR	parent.child	logging/impl_test.go:82	failed	{"idx":3}`)
}

func TestObservedTestLogger(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.Debugw("matched", "count", 4)
	logger.Info("done")

	test.That(t, observed.Len(), test.ShouldEqual, 2)
	entries := observed.All()
	test.That(t, entries[0].Message, test.ShouldEqual, "matched")
	test.That(t, entries[0].ContextMap()["count"], test.ShouldEqual, int64(4))
	test.That(t, entries[1].Message, test.ShouldEqual, "done")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.expected)
	}

	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	var level Level
	test.That(t, level.UnmarshalJSON([]byte(`"error"`)), test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, ERROR)
	data, err := level.MarshalJSON()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, `"Error"`)
}

func TestNewLoggerLevels(t *testing.T) {
	test.That(t, NewLogger("info").GetLevel(), test.ShouldEqual, INFO)
	test.That(t, NewDebugLogger("debug").GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, NewBlankLogger("blank").GetLevel(), test.ShouldEqual, DEBUG)
}

func TestReplaceGlobal(t *testing.T) {
	original := Global()
	defer ReplaceGlobal(original)

	notStdout := &bytes.Buffer{}
	replacement := NewBlankLogger("global")
	replacement.AddAppender(NewWriterAppender(notStdout))
	ReplaceGlobal(replacement)
	test.That(t, Global(), test.ShouldEqual, replacement)

	Global().Warn("through global")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	WARN	global	logging/impl_test.go:144	through global`)
}
