package domain

import "fmt"

// InvalidTemplateError reports a malformed tag name template.
type InvalidTemplateError struct {
	Template string
	Reason   string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid tag template %q: %s", e.Template, e.Reason)
}

// CannotParseTagError reports a tag name that does not match the compiled
// tag template.
type CannotParseTagError struct {
	TagName  string
	Template string
}

func (e *CannotParseTagError) Error() string {
	return fmt.Sprintf("tag %q does not match template %q", e.TagName, e.Template)
}

// TagValidationError reports a tag whose component presence violates the
// significance order: a component may only be set when every more
// significant component is set as well.
type TagValidationError struct {
	Present string
	Missing string
}

func (e *TagValidationError) Error() string {
	return fmt.Sprintf("tag specifies a %s version without a %s version", e.Present, e.Missing)
}

// TagAlreadyExistsError reports an attempt to create a tag whose rendered
// name is already present in the repository.
type TagAlreadyExistsError struct {
	Name string
}

func (e *TagAlreadyExistsError) Error() string {
	return fmt.Sprintf("tag %q already exists", e.Name)
}

// InvalidStepError reports an increment step outside major, minor, patch.
type InvalidStepError struct {
	Step string
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid step %q: must be one of major, minor or patch", e.Step)
}
