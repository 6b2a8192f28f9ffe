package domain

import (
	"strconv"
	"strings"
)

// Tag is an immutable semantic-version value. Each component is optional:
// an absent component is distinct from zero while validating and comparing,
// and normalizes to zero when rendering. Incrementing returns a new Tag.
type Tag struct {
	major *int
	minor *int
	patch *int
}

// NewTag creates a Tag from optional components. Nil means absent.
func NewTag(major, minor, patch *int) Tag {
	return Tag{major: major, minor: minor, patch: patch}
}

// NewFullTag creates a Tag with all three components present.
func NewFullTag(major, minor, patch int) Tag {
	return Tag{major: &major, minor: &minor, patch: &patch}
}

// ZeroTag returns the tag with all components absent. It is the baseline
// for an empty repository: any parsed tag compares greater than it.
func ZeroTag() Tag {
	return Tag{}
}

// VersionDict is the normalized view of a Tag with absent components
// defaulting to zero.
type VersionDict struct {
	Major int
	Minor int
	Patch int
}

// Validate enforces the significance-order invariant: patch requires minor
// and major, minor requires major.
func (t Tag) Validate() error {
	if t.minor != nil && t.major == nil {
		return &TagValidationError{Present: "minor", Missing: "major"}
	}
	if t.patch != nil {
		if t.major == nil {
			return &TagValidationError{Present: "patch", Missing: "major"}
		}
		if t.minor == nil {
			return &TagValidationError{Present: "patch", Missing: "minor"}
		}
	}
	return nil
}

// VersionDict returns the normalized components.
func (t Tag) VersionDict() VersionDict {
	var d VersionDict
	if t.major != nil {
		d.Major = *t.major
	}
	if t.minor != nil {
		d.Minor = *t.minor
	}
	if t.patch != nil {
		d.Patch = *t.patch
	}
	return d
}

// Name renders the tag name from the matcher's template.
func (t Tag) Name(m *TagMatcher) string {
	return t.VersionDict().expand(m.Template())
}

// Message renders the tag message template. Besides the version components
// it substitutes {tagname} with the rendered tag name.
func (t Tag) Message(messageTemplate string, m *TagMatcher) string {
	d := t.VersionDict()
	r := strings.NewReplacer(
		"{major}", strconv.Itoa(d.Major),
		"{minor}", strconv.Itoa(d.Minor),
		"{patch}", strconv.Itoa(d.Patch),
		"{tagname}", t.Name(m),
	)
	return r.Replace(messageTemplate)
}

// Incremented returns a new Tag with the selected component bumped by one.
// An absent component counts as zero. Every component less significant than
// the step is reset to zero.
func (t Tag) Incremented(step Step) (Tag, error) {
	d := t.VersionDict()
	switch step {
	case StepMajor:
		return NewFullTag(d.Major+1, 0, 0), nil
	case StepMinor:
		return NewFullTag(d.Major, d.Minor+1, 0), nil
	case StepPatch:
		return NewFullTag(d.Major, d.Minor, d.Patch+1), nil
	default:
		return Tag{}, &InvalidStepError{Step: string(step)}
	}
}

// Compare walks major, minor, patch. At the first component where exactly
// one side is present, the present side wins. If both are present they
// compare numerically, short-circuiting on inequality. A full tie is zero.
func (t Tag) Compare(other Tag) int {
	pairs := [3][2]*int{
		{t.major, other.major},
		{t.minor, other.minor},
		{t.patch, other.patch},
	}
	for _, p := range pairs {
		a, b := p[0], p[1]
		switch {
		case a != nil && b != nil:
			if *a != *b {
				if *a > *b {
					return 1
				}
				return -1
			}
		case a != nil:
			return 1
		case b != nil:
			return -1
		}
	}
	return 0
}

// String returns the normalized dotted form, for logs and CLI output.
func (t Tag) String() string {
	d := t.VersionDict()
	return strconv.Itoa(d.Major) + "." + strconv.Itoa(d.Minor) + "." + strconv.Itoa(d.Patch)
}

func (d VersionDict) expand(template string) string {
	r := strings.NewReplacer(
		"{major}", strconv.Itoa(d.Major),
		"{minor}", strconv.Itoa(d.Minor),
		"{patch}", strconv.Itoa(d.Patch),
	)
	return r.Replace(template)
}

// ParseTag parses a tag name through the compiled template. The whole name
// must match; each captured group becomes a present component.
func ParseTag(name string, m *TagMatcher) (Tag, error) {
	match := m.pattern.FindStringSubmatch(name)
	if match == nil {
		return Tag{}, &CannotParseTagError{TagName: name, Template: m.Template()}
	}
	var t Tag
	for i, group := range m.pattern.SubexpNames() {
		if group == "" || match[i] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i])
		if err != nil {
			return Tag{}, &CannotParseTagError{TagName: name, Template: m.Template()}
		}
		v := n
		switch group {
		case "major":
			t.major = &v
		case "minor":
			t.minor = &v
		case "patch":
			t.patch = &v
		}
	}
	return t, nil
}
