package helpers

import (
	"fmt"
	"io"
	"os"
)

// StdinArg selects standard input as the source of code.
const StdinArg = "-"

// ReadSource reads code from path, or from stdin when path is "-".
func ReadSource(path string, stdin io.Reader) (string, error) {
	if path == StdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
