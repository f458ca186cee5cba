package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration loaded from the environment.
type Server struct {
	Addr         string
	DatabaseURL  string
	KafkaBrokers []string
	AuditTopic   string
	LogFormat    string
}

// RequestTimeout bounds a single request's store work.
var RequestTimeout = 30 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
// An empty DatabaseURL selects the in-memory store (local development); empty
// KafkaBrokers keeps the audit trail in-process.
func FromEnv() Server {
	addr := os.Getenv("ROLODEX_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("AUDIT_TOPIC")
	if topic == "" {
		topic = "rolodex.profile.audit"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:         addr,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		KafkaBrokers: brokers,
		AuditTopic:   topic,
		LogFormat:    os.Getenv("LOG_FORMAT"),
	}
}
