package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUsername   string `yaml:"db_username"`
	DBPassword   string `yaml:"db_password"`
	DBHost       string `yaml:"db_host"`
	DBPort       string `yaml:"port"`
	DBName       string `yaml:"db_name"`
	DisableTLS   bool   `yaml:"disable_tls"`
	RedisAddr    string `yaml:"redis_addr"`
	JWTKeyPath   string `yaml:"jwt_key_path"`
	Timezone     string `yaml:"timezone"`
	GraceMinutes int    `yaml:"grace_minutes"`
}

func NewConfig() (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, err // Return error if file read fails
	}

	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return nil, err // Return error if unmarshal fails
	}

	// Validate required fields
	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}

	if c.Timezone == "" {
		c.Timezone = "Asia/Tokyo"
	}
	if c.JWTKeyPath == "" {
		c.JWTKeyPath = "./private.pem"
	}

	return &c, nil
}
