// Package config loads runtime configuration from the environment.
package config

import "github.com/spf13/viper"

// SMTP holds mail delivery settings. Empty host disables delivery.
type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// IsConfigured returns true if the settings are complete enough to send mail.
func (s SMTP) IsConfigured() bool {
	return s.Host != "" && s.From != ""
}

// Config holds application configuration.
type Config struct {
	HTTPAddr     string
	DBPath       string // empty means db.DefaultPath()
	JWTSecret    string
	PricePerLead int64 // minor currency units per lead, used for list price recalculation
	DevMode      bool
	SMTP         SMTP
}

// Load reads configuration from CAPTALEADS_* environment variables,
// falling back to defaults.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("captaleads")
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_path", "")
	v.SetDefault("jwt_secret", "dev_secret_change_me")
	v.SetDefault("price_per_lead", 500)
	v.SetDefault("dev_mode", false)
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("smtp_from", "")

	return &Config{
		HTTPAddr:     v.GetString("http_addr"),
		DBPath:       v.GetString("db_path"),
		JWTSecret:    v.GetString("jwt_secret"),
		PricePerLead: v.GetInt64("price_per_lead"),
		DevMode:      v.GetBool("dev_mode"),
		SMTP: SMTP{
			Host: v.GetString("smtp_host"),
			Port: v.GetInt("smtp_port"),
			User: v.GetString("smtp_user"),
			Pass: v.GetString("smtp_pass"),
			From: v.GetString("smtp_from"),
		},
	}
}
