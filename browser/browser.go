package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrTimeout  = errors.New("browser: wait timed out")
	ErrNotFound = errors.New("browser: element not found")
	ErrClosed   = errors.New("browser: session closed")
)

// Browser is one automation session. Every locator is an XPath expression.
// Waits block until the condition holds or the timeout elapses, in which case
// the error wraps ErrTimeout. Other calls use the session default timeout.
type Browser interface {
	// SetDownloadDir sets where clicked downloads are written.
	SetDownloadDir(dir string) error
	// Open launches the session if needed and loads url.
	Open(url string) error
	Navigate(url string) error
	Click(xpath string) error
	// ClickLink clicks the first anchor whose text contains partial.
	ClickLink(partial string) error
	// Select picks the option-th (1-based) option of a select element and
	// fires its change event.
	Select(xpath string, option int) error
	Text(xpath string) (string, error)
	Attribute(xpath, name string) (string, error)
	Count(xpath string) (int, error)
	WaitVisible(xpath string, timeout time.Duration) error
	WaitAbsent(xpath string, timeout time.Duration) error
	// Close releases the session. It is safe to call more than once.
	Close() error
}

type Type int

const (
	ChromeType Type = iota
	SnapshotType
)

func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "chrome":
		return ChromeType, nil
	case "snapshot":
		return SnapshotType, nil
	default:
		return 0, fmt.Errorf("unknown browser type %q", s)
	}
}

// New creates a session of the given type. Chrome is launched lazily by the
// first call that needs it.
func New(ctx context.Context, typ Type, opts ...Option) Browser {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	switch typ {
	case SnapshotType:
		return newSnapshot(options)
	default:
		return newChrome(ctx, options)
	}
}

// PartialLinkXPath matches anchors whose normalized text contains partial.
func PartialLinkXPath(partial string) string {
	return fmt.Sprintf("//a[contains(normalize-space(.), %s)]", xpathLiteral(partial))
}

func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		quoted = append(quoted, `"`+p+`"`)
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
