/**
 * @description
 * This file handles configuration management for the notifier-service.
 * It loads settings from environment variables, providing defaults for
 * cron schedules and the notification retention window.
 */
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the notifier service.
type Config struct {
	DatabaseURL               string `mapstructure:"DATABASE_URL"`
	RabbitMQURL               string `mapstructure:"RABBITMQ_URL"`
	ServerPort                string `mapstructure:"SERVER_PORT"`
	JWTSecret                 string `mapstructure:"JWT_SECRET"`
	InternalAPIKey            string `mapstructure:"INTERNAL_API_KEY"`
	ReminderTriggerURL        string `mapstructure:"REMINDER_TRIGGER_URL"`
	ReminderFromAddress       string `mapstructure:"REMINDER_FROM_ADDRESS"`
	ExpirySweepSchedule       string `mapstructure:"EXPIRY_SWEEP_SCHEDULE"`
	ReminderSweepSchedule     string `mapstructure:"REMINDER_SWEEP_SCHEDULE"`
	CleanupSweepSchedule      string `mapstructure:"CLEANUP_SWEEP_SCHEDULE"`
	NotificationRetentionDays int    `mapstructure:"NOTIFICATION_RETENTION_DAYS"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8084")
	viper.SetDefault("EXPIRY_SWEEP_SCHEDULE", "0 0 * * *")   // At 00:00 daily.
	viper.SetDefault("REMINDER_SWEEP_SCHEDULE", "0 9 * * *") // At 09:00 daily.
	viper.SetDefault("CLEANUP_SWEEP_SCHEDULE", "0 1 * * *")  // At 01:00 daily.
	viper.SetDefault("NOTIFICATION_RETENTION_DAYS", 90)
	viper.SetDefault("REMINDER_FROM_ADDRESS", "no-reply@stockpilot.app")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("INTERNAL_API_KEY")
	_ = viper.BindEnv("REMINDER_TRIGGER_URL")
	_ = viper.BindEnv("REMINDER_FROM_ADDRESS")
	_ = viper.BindEnv("EXPIRY_SWEEP_SCHEDULE")
	_ = viper.BindEnv("REMINDER_SWEEP_SCHEDULE")
	_ = viper.BindEnv("CLEANUP_SWEEP_SCHEDULE")
	_ = viper.BindEnv("NOTIFICATION_RETENTION_DAYS")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if strings.TrimSpace(config.DatabaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(config.ReminderTriggerURL) != "" && strings.TrimSpace(config.InternalAPIKey) == "" {
		return nil, errors.New("INTERNAL_API_KEY is required when REMINDER_TRIGGER_URL is set")
	}
	if config.NotificationRetentionDays <= 0 {
		return nil, errors.New("NOTIFICATION_RETENTION_DAYS must be positive")
	}

	return &config, nil
}

// Retention returns the notification retention window as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.NotificationRetentionDays) * 24 * time.Hour
}
