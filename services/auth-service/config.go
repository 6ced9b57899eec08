package main

import "github.com/yashrajoria/car-rental/backend/services/common/bootstrap"

type Config struct {
	Port        string
	PrincipalID string
}

func LoadConfig() *Config {
	return &Config{
		Port:        bootstrap.GetEnv("PORT", "8085"),
		PrincipalID: bootstrap.GetEnv("AUTH_PRINCIPAL_ID", "user123"),
	}
}
