package tool

import (
	"os"
	"strings"
)

// GetFileValue resolves a configuration value from the environment. When a
// companion <NAME>_FILE variable is set, the trimmed contents of that file
// win, so secrets can be mounted instead of passed inline.
func GetFileValue(name string) string {
	if path := os.Getenv(name + "_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}
	return os.Getenv(name)
}
