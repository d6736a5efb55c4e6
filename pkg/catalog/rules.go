/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rules.go
Description: Ordered file-name classification rules for the tree classifier.
The first matching rule decides the role of a file, so the table order is part
of the behaviour: build files shadow grammars, and the extension-less template
header rule only applies once every earlier rule has declined.
*/

package catalog

import (
	"regexp"
	"strings"
)

// Role is the part a file plays in the build
type Role int

const (
	RoleUnknown Role = iota
	RoleBuild
	RoleHeader
	RoleSource
	RoleGrammar
	RoleEditor
	RoleTemplateHeader
)

// String returns the human readable role name
func (r Role) String() string {
	switch r {
	case RoleBuild:
		return "build-related file"
	case RoleHeader:
		return "C/C++ header file"
	case RoleSource:
		return "C/C++ source file"
	case RoleGrammar:
		return "ANTLR grammar file"
	case RoleEditor:
		return "editor temp file"
	case RoleTemplateHeader:
		return "C++ template header"
	default:
		return "unrecognized file"
	}
}

// Bucket reports which catalog bucket a role feeds, or "" when the file is skipped.
func (r Role) Bucket() string {
	switch r {
	case RoleHeader, RoleTemplateHeader:
		return "headers"
	case RoleSource:
		return "sources"
	case RoleGrammar:
		return "grammars"
	default:
		return ""
	}
}

// Rule is one entry of the classification table
type Rule struct {
	Role        Role
	Description string
	Match       func(name string) bool
}

var (
	expandedGrammar = regexp.MustCompile(`expanded.*\.g$`)

	headerExts = []string{".h", ".hpp", ".h++", ".hxx", ".hh"}
	sourceExts = []string{".c", ".cpp", ".c++", ".cxx", ".cc"}
)

// rules is evaluated top to bottom and never modified after init.
var rules = []Rule{
	{
		Role:        RoleBuild,
		Description: "sconscript, makefile*, expanded*.g, *.o",
		Match: func(name string) bool {
			return name == "sconscript" ||
				strings.HasPrefix(name, "makefile") ||
				expandedGrammar.MatchString(name) ||
				strings.HasSuffix(name, ".o")
		},
	},
	{
		Role:        RoleHeader,
		Description: strings.Join(headerExts, " "),
		Match:       hasAnySuffix(headerExts),
	},
	{
		Role:        RoleSource,
		Description: strings.Join(sourceExts, " "),
		Match:       hasAnySuffix(sourceExts),
	},
	{
		Role:        RoleGrammar,
		Description: ".g",
		Match:       hasAnySuffix([]string{".g"}),
	},
	{
		Role:        RoleEditor,
		Description: "*~, #*, *.swp",
		Match: func(name string) bool {
			return strings.HasSuffix(name, "~") ||
				strings.HasPrefix(name, "#") ||
				strings.HasSuffix(name, ".swp")
		},
	},
	{
		Role:        RoleTemplateHeader,
		Description: "names without a '.'",
		Match: func(name string) bool {
			return !strings.Contains(name, ".")
		},
	},
}

func hasAnySuffix(suffixes []string) func(string) bool {
	return func(name string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(name, s) {
				return true
			}
		}
		return false
	}
}

// Rules returns a copy of the classification table in evaluation order
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// ClassifyName returns the role of a file given its base name.
func ClassifyName(name string) Role {
	for _, r := range rules {
		if r.Match(name) {
			return r.Role
		}
	}
	return RoleUnknown
}
