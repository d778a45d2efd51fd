package output

import (
	"bytes"
	"testing"

	"github.com/mobil-koeln/roamly/internal/testutil"
)

func TestClearLine(t *testing.T) {
	var buf bytes.Buffer
	ClearLine(&buf)
	testutil.AssertEqual(t, buf.String(), "\r\033[2K")
}

func TestCursor(t *testing.T) {
	var buf bytes.Buffer
	HideCursor(&buf)
	ShowCursor(&buf)
	testutil.AssertEqual(t, buf.String(), "\033[?25l\033[?25h")
}

func TestIsTerminal_Buffer(t *testing.T) {
	testutil.AssertFalse(t, IsTerminal(&bytes.Buffer{}))
}
