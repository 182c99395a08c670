package internal

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// secretPrefix marks a 1Password secret reference of the form
// op://vault/item/field.
const secretPrefix = "op://"

// Test seams for the op CLI invocation.
var (
	CommandContext = exec.CommandContext
	LookPath       = exec.LookPath
)

// ResolveSecretReference resolves value through the 1Password CLI when it is
// a secret reference, and returns it unchanged otherwise. The boolean reports
// whether value was a reference.
func ResolveSecretReference(ctx context.Context, value string) (string, bool, error) {
	if !strings.HasPrefix(value, secretPrefix) {
		return value, false, nil
	}

	if _, err := LookPath("op"); err != nil {
		return "", true, fmt.Errorf("1Password CLI (op) not found in PATH: %w", err)
	}

	output, err := CommandContext(ctx, "op", "read", value).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", true, fmt.Errorf("failed to read secret from 1Password: %s", string(exitErr.Stderr))
		}
		return "", true, fmt.Errorf("failed to read secret from 1Password: %w", err)
	}

	// op prints the field followed by a newline.
	return strings.TrimSpace(string(output)), true, nil
}
