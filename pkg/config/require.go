package config

import "fmt"

// RequireNonEmpty reports the first env name whose value is empty. Pairs
// are name, value.
func RequireNonEmpty(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("missing required env %s", pairs[i])
		}
	}
	return nil
}
