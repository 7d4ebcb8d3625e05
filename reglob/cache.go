package reglob

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 1024

// Cache holds compiled patterns so that a pattern applied to every row of
// every page is translated once.
type Cache struct {
	lru *lru.Cache[string, *regexp.Regexp]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

func (c *Cache) Compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := c.lru.Get(pattern); ok {
		return re, nil
	}
	re, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.lru.Add(pattern, re)
	return re, nil
}

// Match is like the package-level Match but reuses compiled patterns.
func (c *Cache) Match(pattern, s string) bool {
	if !HasWildcards(pattern) {
		return Unescape(pattern) == s
	}
	re, err := c.Compile(pattern)
	return err == nil && re.MatchString(s)
}

// Filter returns the names matched by pattern, in order.
func (c *Cache) Filter(pattern string, names []string) []string {
	var out []string
	for _, name := range names {
		if c.Match(pattern, name) {
			out = append(out, name)
		}
	}
	return out
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
