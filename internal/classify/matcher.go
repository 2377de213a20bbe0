package classify

import "strings"

// ProgramKind is the toolchain family a resolved program belongs to.
type ProgramKind int

const (
	Unknown ProgramKind = iota
	Compiler
	Archiver
)

func (k ProgramKind) String() string {
	switch k {
	case Compiler:
		return "compiler"
	case Archiver:
		return "archiver"
	}
	return "unknown"
}

// Matcher decides which toolchain family a program path belongs to.
type Matcher interface {
	Match(program string) ProgramKind
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(program string) ProgramKind

func (f MatcherFunc) Match(program string) ProgramKind { return f(program) }

var (
	DefaultCompilers = []string{"cc", "c++", "gcc", "g++"}
	DefaultArchivers = []string{"ar"}
)

// SubstringMatcher matches case-sensitive substrings of the program path.
// Compilers are checked before archivers.
type SubstringMatcher struct {
	Compilers []string
	Archivers []string
}

// DefaultMatcher recognizes cc, c++, gcc, g++ and ar.
func DefaultMatcher() SubstringMatcher {
	return SubstringMatcher{Compilers: DefaultCompilers, Archivers: DefaultArchivers}
}

// With returns a copy of m that also recognizes the extra names.
func (m SubstringMatcher) With(compilers, archivers []string) SubstringMatcher {
	return SubstringMatcher{
		Compilers: appendUnique(m.Compilers, compilers),
		Archivers: appendUnique(m.Archivers, archivers),
	}
}

func (m SubstringMatcher) Match(program string) ProgramKind {
	if containsAny(program, m.Compilers) {
		return Compiler
	}
	if containsAny(program, m.Archivers) {
		return Archiver
	}
	return Unknown
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func appendUnique(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			if _, dup := seen[s]; dup || s == "" {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
