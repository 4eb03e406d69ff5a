package epub

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/taylorskalyo/goreader/epub"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
	"github.com/Zolangui/Lumen-Read/internal/core/ports/driven"
)

// excerptRadius is how many runes of context surround a search hit.
const excerptRadius = 40

// Ensure spineItem implements the interface.
var _ driven.SpineItem = (*spineItem)(nil)

// spineItem wraps one spine entry. Content is extracted once and
// cached; search and rendering share the cached text.
type spineItem struct {
	index int
	item  *epub.Item

	mu      sync.Mutex
	content *driven.SectionContent
}

func (s *spineItem) Index() int { return s.index }

func (s *spineItem) Href() string { return s.item.HREF }

// Load extracts the item's text and image references.
func (s *spineItem) Load(_ context.Context) (*driven.SectionContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content != nil {
		return s.content, nil
	}
	data, err := readItem(s.item)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.item.HREF, err)
	}
	text, images := extractContent(string(data))
	s.content = &driven.SectionContent{Text: text, Images: images}
	return s.content, nil
}

// Find scans the item's text for a keyword, case-insensitively. Each
// hit becomes one Match leaf with a surrounding excerpt and a position
// identifier pointing at the hit's rune offset.
func (s *spineItem) Find(keyword string) ([]domain.Match, error) {
	if keyword == "" {
		return nil, nil
	}
	content, err := s.Load(context.Background())
	if err != nil {
		return nil, err
	}

	runes := []rune(content.Text)
	lower := []rune(strings.ToLower(content.Text))
	needle := []rune(strings.ToLower(keyword))

	var hits []domain.Match
	for at := 0; at+len(needle) <= len(lower); {
		j := indexRunes(lower[at:], needle)
		if j < 0 {
			break
		}
		hit := at + j
		hits = append(hits, domain.Match{
			ID:      fmt.Sprintf("%s#%d", s.item.HREF, len(hits)),
			Excerpt: excerptAround(runes, hit, len(needle)),
			CFI:     makeCFI(s.index, hit),
		})
		at = hit + len(needle)
	}
	return hits, nil
}

// indexRunes is strings.Index over rune slices.
func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// excerptAround cuts a context window around a hit, with ellipses when
// the window is clipped.
func excerptAround(runes []rune, hit, length int) string {
	start := hit - excerptRadius
	if start < 0 {
		start = 0
	}
	end := hit + length + excerptRadius
	if end > len(runes) {
		end = len(runes)
	}
	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString("…")
	}
	return b.String()
}
