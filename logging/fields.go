package logging

import "github.com/sirupsen/logrus"

// BaseFields builds the action + config path fields shared by CLI entry points.
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields describes one HTTP request for access logs.
func RequestFields(requestID, method, path string, status int, latencyMS int64) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
		"status":     status,
		"latency_ms": latencyMS,
	}
}
