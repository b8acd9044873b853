package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template), 0o600)
}

// Template documents every key Load accepts, set to its default.
const Template = `# decoder traversal: "stack" or "recursive"
strategy = "stack"
max_depth = 4096

# inputs larger than this are rejected before decoding
max_input_bytes = 1048576

log_level = "warn"

# Prometheus text exposition written after each run; empty disables it
metrics_file = ""
`
