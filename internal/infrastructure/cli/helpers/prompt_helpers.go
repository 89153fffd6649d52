package helpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/pyfuturist/internal/ports"
)

// Confirm asks a yes/no question through prompter. An empty or cancelled
// answer yields defaultYes.
func Confirm(ctx context.Context, prompter ports.InputPrompter, question string, defaultYes bool) (bool, error) {
	value, ok, err := prompter.Prompt(ctx, fmt.Sprintf("%s [%s]:", question, yesNoLabel(defaultYes)))
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(value))
	if !ok || answer == "" {
		return defaultYes, nil
	}
	return answer == "y" || answer == "yes", nil
}

func yesNoLabel(defaultYes bool) string {
	if defaultYes {
		return "Y/n"
	}
	return "y/N"
}
