package search

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

const (
	gramSize = 3
	indexFPR = 0.01
)

// entry holds the lowercase searchable fields of one product and a bloom
// filter over their trigrams. The filter may report false positives, never
// false negatives, so it only ever rules products out.
type entry struct {
	fields []string
	grams  *bloom.BloomFilter
}

func newEntry(p *product.Product) entry {
	fields := []string{
		strings.ToLower(p.Title),
		strings.ToLower(p.Series),
		strconv.Itoa(p.Year),
	}

	n := 0
	for _, f := range fields {
		n += max(len(f)-gramSize+1, 0)
	}
	filter := bloom.NewWithEstimates(uint(max(n, 1)), indexFPR)
	for _, f := range fields {
		for i := 0; i+gramSize <= len(f); i++ {
			filter.AddString(f[i : i+gramSize])
		}
	}

	return entry{fields: fields, grams: filter}
}

// match reports whether needle (already lowercased) is a substring of any
// field.
func (e *entry) match(needle string) bool {
	if needle == "" {
		return true
	}
	if len(needle) >= gramSize {
		for i := 0; i+gramSize <= len(needle); i++ {
			if !e.grams.TestString(needle[i : i+gramSize]) {
				return false
			}
		}
	}
	for _, f := range e.fields {
		if strings.Contains(f, needle) {
			return true
		}
	}
	return false
}
