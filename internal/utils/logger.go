package utils

import (
	"log"
	"strings"
)

// LogEvent prints one line per flow action in a fixed key=value shape so
// lines grep cleanly by module or action. Messages carry flow/booking ids
// only; tokens and draft payloads never go through here.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("event module=%s action=%s request_id=%s %s", strings.ToLower(module), action, req, message)
}
