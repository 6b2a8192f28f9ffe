package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholders in the order the template scanner tries them: longest
// applicable token first at every position.
var placeholders = []string{"{patch}", "{minor}", "{major}"}

// TagMatcher is a compiled tag name template: an anchored pattern with one
// named digit group per placeholder present in the template.
type TagMatcher struct {
	template string
	pattern  *regexp.Regexp
}

// Template returns the source template the matcher was compiled from.
func (m *TagMatcher) Template() string {
	return m.template
}

// Pattern returns the compiled expression, mainly for diagnostics.
func (m *TagMatcher) Pattern() string {
	return m.pattern.String()
}

// ValidateTemplate checks a tag name template. A template must be
// non-empty, consist only of the {major}, {minor}, {patch} placeholders and
// literal characters from [A-Za-z0-9.:,_-], and respect significance order:
// {patch} requires {minor} and {major}, {minor} requires {major}.
func ValidateTemplate(template string) error {
	if template == "" {
		return &InvalidTemplateError{Template: template, Reason: "template is empty"}
	}
	seen := make(map[string]bool, 3)
	rest := template
	for rest != "" {
		if name, ok := leadingPlaceholder(rest); ok {
			seen[name] = true
			rest = rest[len(name)+2:]
			continue
		}
		c := rest[0]
		if !isTemplateLiteral(c) {
			return &InvalidTemplateError{
				Template: template,
				Reason:   fmt.Sprintf("illegal character %q", string(c)),
			}
		}
		rest = rest[1:]
	}
	if seen["minor"] && !seen["major"] {
		return &InvalidTemplateError{Template: template, Reason: "{minor} requires {major}"}
	}
	if seen["patch"] && (!seen["minor"] || !seen["major"]) {
		return &InvalidTemplateError{Template: template, Reason: "{patch} requires {minor} and {major}"}
	}
	return nil
}

// CompileTemplate validates a template and compiles it into a TagMatcher.
// Literal characters are quoted first so a template dot matches an exact
// dot, then each placeholder becomes a named one-or-more-digit group. The
// pattern is anchored at both ends: a tag name either matches the whole
// template or not at all.
func CompileTemplate(template string) (*TagMatcher, error) {
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	quoted := regexp.QuoteMeta(template)
	for _, ph := range placeholders {
		name := ph[1 : len(ph)-1]
		quoted = strings.ReplaceAll(quoted, `\{`+name+`\}`, `(?P<`+name+`>\d+)`)
	}
	pattern, err := regexp.Compile("^" + quoted + "$")
	if err != nil {
		return nil, &InvalidTemplateError{Template: template, Reason: err.Error()}
	}
	return &TagMatcher{template: template, pattern: pattern}, nil
}

func leadingPlaceholder(s string) (string, bool) {
	for _, ph := range placeholders {
		if strings.HasPrefix(s, ph) {
			return ph[1 : len(ph)-1], true
		}
	}
	return "", false
}

func isTemplateLiteral(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.' || c == ':' || c == ',' || c == '_' || c == '-':
		return true
	}
	return false
}
