package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "MCPFG"

type Config struct {
	FieldGuildAddr string `envconfig:"FIELDGUILD_ADDR" default:"http://localhost:3100"`
	Session        string `envconfig:"SESSION" default:"mcp"`
	APIKey         string `envconfig:"API_KEY"`
	LLMKey         string `envconfig:"LLM_KEY"`
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()
	c := &Config{}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return c, nil
}
