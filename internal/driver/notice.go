package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// NoticeText is printed when the notice is due.
const NoticeText = "warning: your compiler executable is being wrapped by eyec."

// Notice reminds the user that their toolchain is intercepted. It is due
// when the stamp file is missing or older than Interval; every check
// refreshes the stamp, so the reminder shows after a pause in building
// rather than on a fixed clock.
type Notice struct {
	StampPath string
	Interval  time.Duration
	Now       func() time.Time
}

// DefaultStampPath lives in the system temp directory.
func DefaultStampPath() string {
	return filepath.Join(os.TempDir(), "eyec.timestamp")
}

// Due reports whether the notice should be shown and refreshes the stamp.
func (n Notice) Due() bool {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	t := now()

	due := true
	if data, err := os.ReadFile(n.StampPath); err == nil {
		if ms, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64); err == nil {
			due = t.Sub(time.UnixMilli(ms)) > n.Interval
		}
	}
	// A failed refresh only means the notice repeats.
	_ = os.WriteFile(n.StampPath, []byte(strconv.FormatInt(t.UnixMilli(), 10)), 0o644)
	return due
}

// Show writes NoticeText to w when due.
func (n Notice) Show(w io.Writer) {
	if n.Due() {
		fmt.Fprintln(w, NoticeText)
	}
}
