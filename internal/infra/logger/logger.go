package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey keys the request identifier on a context.Context. The
// request ID middleware stores it; log emitters read it back.
type RequestIDKey struct{}

// New builds the process logger. Production uses the JSON encoder at
// info level; any other environment gets a colored console encoder at
// debug level.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// Masking helpers keep addresses, client IPs, and token material out of
// the logs while leaving enough to correlate entries.

// MaskEmail keeps at most the first three characters of the local part
// and the whole domain: john.doe@example.com becomes joh***@example.com.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "***"
	}

	local := email[:at]
	if len(local) > 3 {
		local = local[:3]
	}
	return local + "***" + email[at:]
}

// MaskIP keeps the first two IPv4 octets or the first four IPv6 groups:
// 192.168.1.100 becomes 192.168.*.*.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if octets := strings.Split(ip, "."); len(octets) == 4 {
		return octets[0] + "." + octets[1] + ".*.*"
	}
	if groups := strings.Split(ip, ":"); len(groups) >= 4 {
		return strings.Join(groups[:4], ":") + ":*:*:*:*"
	}
	return "***"
}

// MaskString keeps the first and last two characters of a secret.
// Values of four characters or fewer mask entirely.
func MaskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "***"
	}
	return s[:2] + "***" + s[len(s)-2:]
}
