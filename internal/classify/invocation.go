package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SourceExtensions are the suffixes recognized as C/C++ translation units.
var SourceExtensions = []string{".c", ".cc", ".cpp", ".cxx", ".cx", ".c++"}

// Invocation is the shape of a command line, extracted without
// interpreting any flag beyond -c, -o and -l.
type Invocation struct {
	Compile   bool     // -c present
	Output    string   // argument following the first -o
	HasOutput bool     // -o present and followed by an argument
	Sources   []string // arguments with a source extension
	Objects   []string // arguments ending in .o
	Archives  []string // arguments ending in .a
	Libraries []string // -l<name> arguments, as lib<name>.a
}

// Parse scans args once. args[0] is the program name as invoked and is
// not inspected.
func Parse(args []string) Invocation {
	var inv Invocation
	if len(args) == 0 {
		return inv
	}
	rest := args[1:]
	for i, a := range rest {
		switch {
		case a == "-c":
			inv.Compile = true
		case a == "-o":
			if !inv.HasOutput && i+1 < len(rest) {
				inv.Output = rest[i+1]
				inv.HasOutput = true
			}
		}
		if isSource(a) {
			inv.Sources = append(inv.Sources, a)
		}
		if strings.HasSuffix(a, ".o") {
			inv.Objects = append(inv.Objects, a)
		}
		if strings.HasSuffix(a, ".a") {
			inv.Archives = append(inv.Archives, a)
		}
		if lib, ok := implicitLibrary(a); ok {
			inv.Libraries = append(inv.Libraries, lib)
		}
	}
	return inv
}

func isSource(a string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(a, ext) {
			return true
		}
	}
	return false
}

// implicitLibrary maps -lfoo to libfoo.a. The character after -l must be a
// Unicode letter or number, which excludes forms like -l: and the bare -l.
func implicitLibrary(a string) (string, bool) {
	name, ok := strings.CutPrefix(a, "-l")
	if !ok || name == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
		return "", false
	}
	return "lib" + name + ".a", true
}
