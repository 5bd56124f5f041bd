package themes

import (
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/mdslides/pkg/api"
)

// themeSource adapts a theme slice to fuzzy.Source, matching on
// "key name" so either spelling finds the theme.
type themeSource []api.Theme

func (s themeSource) String(i int) string { return s[i].Key + " " + s[i].Name }
func (s themeSource) Len() int            { return len(s) }

// Match returns up to n themes best matching input (all themes, in key
// order, for empty input). n <= 0 means no limit.
func (c *Catalog) Match(input string, n int) []api.Theme {
	all := c.List()
	if input == "" {
		return all
	}
	matches := fuzzy.FindFrom(input, themeSource(all))
	if len(matches) == 0 {
		return nil
	}
	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}
	out := make([]api.Theme, limit)
	for i := 0; i < limit; i++ {
		out[i] = all[matches[i].Index]
	}
	return out
}

// MatchKeys is Match reduced to keys, for shell completion.
func (c *Catalog) MatchKeys(input string, n int) []string {
	ts := c.Match(input, n)
	keys := make([]string, len(ts))
	for i, t := range ts {
		keys[i] = t.Key
	}
	return keys
}
