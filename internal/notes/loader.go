package notes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/fyrsmithlabs/eventdates/internal/extraction"
	"github.com/fyrsmithlabs/eventdates/internal/logging"
)

// maxLineSize bounds a single line. Notes are stored one per line and may
// be long.
const maxLineSize = 16 * 1024 * 1024

// Loader reads the pipeline's input and output files.
type Loader struct {
	logger        *logging.Logger
	defaultWindow int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDefaultWindow sets the window given to keywords that do not name one.
func WithDefaultWindow(n int) LoaderOption {
	return func(l *Loader) {
		l.defaultWindow = n
	}
}

// NewLoader creates a Loader. A nil logger discards warnings.
func NewLoader(logger *logging.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{logger: logger, defaultWindow: extraction.DefaultWindow}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) keyword(text, position string) extraction.Keyword {
	k := extraction.NewKeyword(normalize(text), extraction.Position(position))
	k.Window = l.defaultWindow
	return k
}

// eachLine calls fn with the tab-separated fields of every non-blank line of
// r, after trimming surrounding whitespace. lineNo is 1-based.
func eachLine(r io.Reader, fn func(lineNo int, line string, fields []string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fn(lineNo, line, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return nil
}

// openWith opens path and passes it to read.
func openWith[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// skip logs a malformed line. The line itself may hold note text, so only
// its length is logged.
func (l *Loader) skip(ctx context.Context, kind string, lineNo int, line string, reason string) {
	l.logger.Warn(ctx, "bad "+kind+" file line format; skipping",
		zap.Int("line", lineNo),
		zap.String("reason", reason),
		logging.RedactedString("text", line),
	)
}

func normalize(s string) string {
	return norm.NFC.String(s)
}
