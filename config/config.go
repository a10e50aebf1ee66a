package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database        DatabaseConfig    `yaml:"database"`
	RefdataDatabase DatabaseConfig    `yaml:"refdata_database"`
	Kafka           KafkaConfig       `yaml:"kafka"`
	Redis           RedisConfig       `yaml:"redis"`
	FlightCheck     FlightCheckConfig `yaml:"flightcheck"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	FlightResolvedTopicName string `yaml:"flight_resolved_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type FlightCheckConfig struct {
	HTTPAddr              string `yaml:"http_addr"`
	EligibilityTTLSeconds int    `yaml:"eligibility_ttl_seconds"`
	RateLimitPerMinute    int64  `yaml:"rate_limit_per_minute"`

	// Провайдеры статусов рейсов. Пустой base_url выключает провайдера.
	FlighteraBaseURL   string `yaml:"flightera_base_url"`
	FlighteraAPIKey    string `yaml:"flightera_api_key"`
	FlightStatsBaseURL string `yaml:"flightstats_base_url"`
	FlightStatsAppID   string `yaml:"flightstats_app_id"`
	FlightStatsAppKey  string `yaml:"flightstats_app_key"`
	AeroDataBoxBaseURL string `yaml:"aerodatabox_base_url"`
	AeroDataBoxAPIKey  string `yaml:"aerodatabox_api_key"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
