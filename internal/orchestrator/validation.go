package orchestrator

import (
	"fmt"
	"regexp"
)

var remoteNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// ValidateRemoteName rejects remote names that cannot be a git remote.
func ValidateRemoteName(name string) error {
	if name == "" {
		return fmt.Errorf("remote name cannot be empty")
	}
	if !remoteNamePattern.MatchString(name) {
		return fmt.Errorf("invalid remote name: %s", name)
	}
	return nil
}
