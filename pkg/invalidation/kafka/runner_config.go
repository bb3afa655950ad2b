package kafka

import (
	"os"
	"strings"
	"time"
)

type Driver string

const (
	DriverNone  Driver = "none"
	DriverKafka Driver = "kafka"
)

type InvalidationConfig struct {
	Enabled bool
	Driver  Driver

	Brokers []string
	Topic   string
	GroupID string

	SessionTimeout   time.Duration
	Heartbeat        time.Duration
	RebalanceTimeout time.Duration
	InitialOldest    bool
}

func FromEnv() InvalidationConfig {
	enabled := strings.ToLower(os.Getenv("INVALIDATION_ENABLED")) == "true"
	driver := Driver(strings.TrimSpace(os.Getenv("INVALIDATION_DRIVER")))
	if driver == "" {
		driver = DriverNone
	}
	brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	topic := strings.TrimSpace(os.Getenv("KAFKA_TOPIC"))
	if topic == "" {
		topic = "duty-updates"
	}
	group := strings.TrimSpace(os.Getenv("KAFKA_GROUP_ID"))
	if group == "" {
		group = "locator-invalidator"
	}

	return InvalidationConfig{
		Enabled: enabled,
		Driver:  driver,
		Brokers: strings.Split(brokers, ","),
		Topic:   topic,
		GroupID: group,

		SessionTimeout:   getduration("KAFKA_SESSION_TIMEOUT", 10*time.Second),
		Heartbeat:        getduration("KAFKA_HEARTBEAT", 3*time.Second),
		RebalanceTimeout: getduration("KAFKA_REBALANCE_TIMEOUT", 60*time.Second),
		InitialOldest:    strings.ToLower(os.Getenv("KAFKA_INITIAL_OLDEST")) == "true",
	}
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
