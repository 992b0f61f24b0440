// Package match implements the pattern matcher: classifying a
// config-file pattern string as regex or glob, compiling it once, and
// testing it against text any number of times.
//
// Grammar: a string of the form "/<body>/" or "/<body>/i", optionally
// prefixed with "!", is a regex; anything else is a glob. The leading
// "!" is accepted but not semantically negated — it is stripped during
// classification and never inspected again.
package match

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/absurd-party/deploynaut/internal/policyerr"
)

var regexForm = regexp.MustCompile(`^!?/.*/(i)?$`)

// Matcher tests compiled patterns against text.
type Matcher interface {
	Match(text string) bool
}

type regexMatcher struct{ re *regexp.Regexp }

func (m regexMatcher) Match(text string) bool {
	if text == "" {
		return false
	}
	return m.re.MatchString(text)
}

type globMatcher struct{ g glob.Glob }

func (m globMatcher) Match(text string) bool {
	if text == "" {
		return false
	}
	return globContains(m.g, text)
}

// globContains reports whether the glob matches anywhere in text, not
// just against the whole string, layered on top of gobwas/glob's
// whole-string matching. Review/comment bodies are short enough that
// the quadratic substring scan is not a concern in practice.
func globContains(g glob.Glob, text string) bool {
	for start := 0; start < len(text); start++ {
		for end := len(text); end > start; end-- {
			if g.Match(text[start:end]) {
				return true
			}
		}
	}
	return false
}

// Compile classifies pattern and compiles it. Compilation failure is a
// fatal configuration error, not a skip.
func Compile(pattern string) (Matcher, error) {
	if regexForm.MatchString(pattern) {
		return compileRegex(pattern)
	}
	return compileGlob(pattern)
}

func compileRegex(pattern string) (Matcher, error) {
	body := strings.TrimPrefix(pattern, "!")
	body = strings.TrimPrefix(body, "/")
	caseInsensitive := strings.HasSuffix(body, "/i")
	if caseInsensitive {
		body = strings.TrimSuffix(body, "/i")
	} else {
		body = strings.TrimSuffix(body, "/")
	}
	if caseInsensitive {
		body = "(?i)" + body
	}
	re, err := regexp.Compile(body)
	if err != nil {
		return nil, policyerr.NewConfigError(fmt.Sprintf("compile regex pattern %q", pattern), err)
	}
	return regexMatcher{re: re}, nil
}

func compileGlob(pattern string) (Matcher, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, policyerr.NewConfigError(fmt.Sprintf("compile glob pattern %q", pattern), err)
	}
	return globMatcher{g: withMatchBase(g, pattern)}, nil
}

// withMatchBase implements matchBase=true: a pattern containing no
// separator also matches against the text's basename.
func withMatchBase(g glob.Glob, pattern string) glob.Glob {
	if strings.ContainsRune(pattern, '/') {
		return g
	}
	return basenameGlob{g: g}
}

type basenameGlob struct{ g glob.Glob }

func (b basenameGlob) Match(s string) bool {
	if b.g.Match(s) {
		return true
	}
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		return b.g.Match(s[idx+1:])
	}
	return false
}

// Registry compiles and caches matchers by pattern string, so a pattern
// list used by many reviews is compiled once. Shared across the
// concurrent sibling rule evaluations an AND/OR group fans out, so
// access to cache is mutex-guarded.
type Registry struct {
	mu    sync.Mutex
	cache map[string]Matcher
}

// NewRegistry returns an empty pattern cache.
func NewRegistry() *Registry {
	return &Registry{cache: make(map[string]Matcher)}
}

// Matches reports whether text matches pattern, compiling and caching
// pattern on first use. Returns a ConfigError if pattern fails to
// compile.
func (r *Registry) Matches(pattern, text string) (bool, error) {
	r.mu.Lock()
	m, ok := r.cache[pattern]
	r.mu.Unlock()
	if !ok {
		compiled, err := Compile(pattern)
		if err != nil {
			return false, err
		}
		r.mu.Lock()
		r.cache[pattern] = compiled
		r.mu.Unlock()
		m = compiled
	}
	return m.Match(text), nil
}

// MatchesAny reports whether text matches any of patterns.
func (r *Registry) MatchesAny(patterns []string, text string) (bool, error) {
	for _, p := range patterns {
		ok, err := r.Matches(p, text)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
