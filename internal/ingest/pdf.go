// Package ingest turns uploaded project briefs into text that can seed
// a session's initial idea.
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	pdfx "github.com/ledongthuc/pdf"
)

// DefaultMaxPages caps how much of a brief is extracted when no page
// selection is given.
const DefaultMaxPages = 20

// PDFOptions controls brief extraction.
type PDFOptions struct {
	// Pages selects pages, e.g. "1-3,7". Empty means all pages.
	Pages string
	// MaxPages caps the number of extracted pages. Zero means
	// DefaultMaxPages.
	MaxPages int
}

// ExtractPDF reads the text of a PDF brief at the given path.
func ExtractPDF(path string, opts PDFOptions) (string, error) {
	f, r, err := pdfx.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	selected := expandPages(opts.Pages, total)
	if len(selected) == 0 {
		for i := 1; i <= total; i++ {
			selected = append(selected, i)
		}
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if len(selected) > maxPages {
		selected = selected[:maxPages]
	}

	var out strings.Builder
	for _, page := range selected {
		p := r.Page(page)
		txt, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(txt); t != "" {
			out.WriteString(t)
			out.WriteString("\n\n")
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return text, nil
}

// expandPages parses a page selector like "1-3,7" into page numbers,
// deduplicated, clamped to [1, total]. Reversed ranges are accepted.
func expandPages(spec string, total int) []int {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	var out []int
	seen := make(map[int]struct{})
	add := func(n int) {
		if n < 1 || n > total {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		out = append(out, n)
		seen[n] = struct{}{}
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			rng := strings.SplitN(part, "-", 2)
			a, _ := strconv.Atoi(strings.TrimSpace(rng[0]))
			b, _ := strconv.Atoi(strings.TrimSpace(rng[1]))
			if a > b {
				a, b = b, a
			}
			for i := a; i <= b; i++ {
				add(i)
			}
			continue
		}
		n, _ := strconv.Atoi(part)
		add(n)
	}
	return out
}
