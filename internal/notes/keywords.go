package notes

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/extraction"
)

// ReadKeywords reads lines of the form keyword, position and optional
// window, separated by tabs. Positions are not validated here; the
// extractor warns about and ignores unknown ones.
func (l *Loader) ReadKeywords(ctx context.Context, r io.Reader) ([]extraction.Keyword, error) {
	var keywords []extraction.Keyword

	err := eachLine(r, func(lineNo int, line string, fields []string) {
		if len(fields) != 2 && len(fields) != 3 {
			l.skip(ctx, "keywords", lineNo, line, fmt.Sprintf("want 2 or 3 fields, got %d", len(fields)))
			return
		}

		if strings.TrimSpace(fields[0]) == "" {
			l.skip(ctx, "keywords", lineNo, line, "keyword text is empty")
			return
		}
		k := l.keyword(fields[0], fields[1])
		if len(fields) == 3 {
			window, err := strconv.Atoi(strings.TrimSpace(fields[2]))
			if err != nil {
				l.skip(ctx, "keywords", lineNo, line, "window is not an integer")
				return
			}
			k.Window = window
		}
		keywords = append(keywords, k)
	})
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// keywordSet is the TOML form of a keyword list:
//
//	[[keyword]]
//	text = "diagnosed"
//	position = "PRE-DATE"
//	window = 150
type keywordSet struct {
	Keywords []struct {
		Text     string `toml:"text"`
		Position string `toml:"position"`
		Window   *int   `toml:"window"`
	} `toml:"keyword"`
}

// ReadKeywordsTOML reads a TOML keyword set. A missing window takes the
// loader's default. Entries with blank text are logged and skipped.
func (l *Loader) ReadKeywordsTOML(ctx context.Context, r io.Reader) ([]extraction.Keyword, error) {
	var set keywordSet
	if _, err := toml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode keyword set: %w", err)
	}

	keywords := make([]extraction.Keyword, 0, len(set.Keywords))
	for i, k := range set.Keywords {
		if strings.TrimSpace(k.Text) == "" {
			l.logger.Warn(ctx, "keyword set entry has empty text; skipping",
				zap.Int("entry", i+1),
				zap.String("position", k.Position),
			)
			continue
		}
		kw := l.keyword(k.Text, k.Position)
		if k.Window != nil {
			kw.Window = *k.Window
		}
		keywords = append(keywords, kw)
	}
	return keywords, nil
}

// LoadKeywords reads a keywords file, as TOML if its extension is .toml and
// as tab-delimited lines otherwise.
func (l *Loader) LoadKeywords(ctx context.Context, path string) ([]extraction.Keyword, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return openWith(path, func(r io.Reader) ([]extraction.Keyword, error) {
			return l.ReadKeywordsTOML(ctx, r)
		})
	}
	return openWith(path, func(r io.Reader) ([]extraction.Keyword, error) {
		return l.ReadKeywords(ctx, r)
	})
}
