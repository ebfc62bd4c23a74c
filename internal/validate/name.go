package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// instanceNamePattern allows lowercase letters, digits, hyphens and underscores.
var instanceNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// MaxInstanceNameLength bounds names shown in logs and health output.
const MaxInstanceNameLength = 63

// InstanceNameFormat checks a daemon instance name: [a-z0-9_-], at most
// MaxInstanceNameLength characters, starting and ending alphanumeric.
func InstanceNameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}
	if len(name) > MaxInstanceNameLength {
		return fmt.Errorf("instance name '%s' is longer than %d characters", name, MaxInstanceNameLength)
	}
	if !instanceNamePattern.MatchString(name) {
		return fmt.Errorf("instance name '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), and underscores (_)", name)
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("instance name '%s' cannot start or end with hyphen (-) or underscore (_)", name)
	}
	return nil
}
