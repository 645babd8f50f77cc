package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `# input format: ints | raw | frame
format = "ints"

# reject values outside [0, 255] instead of keeping their low 8 bits
strict = false

# frame mode payload limit
max_payload_bytes = 8388608

# write prometheus text metrics here on exit (empty disables)
metrics_path = ""

# trace | debug | info | warn | error | disabled
log_level = "info"
`
