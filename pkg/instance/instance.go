package instance

import "os"

// GetID returns the serving instance identifier or a default value.
func GetID() string {
	if id := os.Getenv("COPILOT_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("HOSTNAME"); id != "" {
		return id
	}
	return "local"
}
