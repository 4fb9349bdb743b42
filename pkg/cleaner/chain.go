package cleaner

import (
	"fmt"
	"strings"
)

// ChainCleaner applies multiple cleaners in sequence.
// This allows composing cleaners for multi-stage processing.
type ChainCleaner struct {
	cleaners []Cleaner
}

// NewChain creates a new cleaner that applies multiple cleaners in sequence.
// Cleaners are applied in the order provided.
//
// Example:
//
//	chain := cleaner.NewChain(
//	    sanitize.New(sanitize.DefaultOptions()),
//	    cleaner.NewFooterStripper(),
//	)
func NewChain(cleaners ...Cleaner) *ChainCleaner {
	return &ChainCleaner{
		cleaners: cleaners,
	}
}

// Clean applies all cleaners in sequence.
func (c *ChainCleaner) Clean(content string) (string, error) {
	var err error
	for _, cl := range c.cleaners {
		content, err = cl.Clean(content)
		if err != nil {
			return "", fmt.Errorf("%s: %w", cl.Name(), err)
		}
	}
	return content, nil
}

// Len returns the number of chained cleaners.
func (c *ChainCleaner) Len() int {
	return len(c.cleaners)
}

// Name returns the names of all chained cleaners.
func (c *ChainCleaner) Name() string {
	names := make([]string, len(c.cleaners))
	for i, cl := range c.cleaners {
		names[i] = cl.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
