package config

import "os"

// ExpandEnv expands ${VAR} / $VAR references in YAML content before
// parsing, exactly as the teacher's own envexpand does for its
// tarsy.yaml. Missing variables expand to empty string; ValidateAll
// catches required fields left empty by that.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
