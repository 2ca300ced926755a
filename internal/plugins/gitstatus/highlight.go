package gitstatus

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/stagehand/internal/diff"
)

// maxHighlightCache bounds the number of rendered lines kept. The cache is
// dropped wholesale when it fills up.
const maxHighlightCache = 4096

// highlighter colours line bodies by the syntax of their file. Output is
// cached by a hash of path and text, since the same visible lines are
// rendered on every frame.
type highlighter struct {
	enabled bool
	style   *chroma.Style

	mu      sync.Mutex
	lexers  map[string]chroma.Lexer
	cache   map[uint64]string
	hashBuf []byte
}

func newHighlighter(enabled bool, styleName string) *highlighter {
	style := chromastyles.Get(styleName)
	if style == nil {
		style = chromastyles.Fallback
	}
	return &highlighter{
		enabled: enabled,
		style:   style,
		lexers:  make(map[string]chroma.Lexer),
		cache:   make(map[uint64]string),
	}
}

// Render returns text with syntax colours over base, the style of the line
// kind. Text must already be cut to its display width; base alone is used
// when highlighting is off or no lexer matches the path.
func (h *highlighter) Render(path, text string, kind diff.LineKind, base lipgloss.Style) string {
	if h == nil || !h.enabled || text == "" {
		return base.Render(text)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	lexer := h.lexerFor(path)
	if lexer == nil {
		return base.Render(text)
	}

	key := h.key(path, text, kind)
	if out, ok := h.cache[key]; ok {
		return out
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return base.Render(text)
	}
	var sb strings.Builder
	for tok := it(); tok != chroma.EOF; tok = it() {
		value := strings.ReplaceAll(tok.Value, "\n", "")
		if value == "" {
			continue
		}
		sb.WriteString(h.tokenStyle(tok.Type, base).Render(value))
	}
	out := sb.String()

	if len(h.cache) >= maxHighlightCache {
		h.cache = make(map[uint64]string)
	}
	h.cache[key] = out
	return out
}

func (h *highlighter) key(path, text string, kind diff.LineKind) uint64 {
	h.hashBuf = append(h.hashBuf[:0], byte(kind))
	h.hashBuf = append(h.hashBuf, path...)
	h.hashBuf = append(h.hashBuf, 0)
	h.hashBuf = append(h.hashBuf, text...)
	return xxhash.Sum64(h.hashBuf)
}

func (h *highlighter) lexerFor(path string) chroma.Lexer {
	name := filepath.Base(path)
	if l, ok := h.lexers[name]; ok {
		return l
	}
	l := lexers.Match(name)
	if l != nil {
		l = chroma.Coalesce(l)
	}
	h.lexers[name] = l
	return l
}

func (h *highlighter) tokenStyle(tt chroma.TokenType, base lipgloss.Style) lipgloss.Style {
	entry := h.style.Get(tt)
	s := base
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	return s
}
