package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIRONMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	DB_TIMEOUT   time.Duration
	PORT         int
	// Redis Configuration (optional, write throttle only)
	REDIS_URL string
	// CORS
	ALLOWED_ORIGINS string
}

func Get() (*EnvironmentVariable, error) {

	// The legacy backend listened on 1713; the frontend still defaults to it
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 1713
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	dbTimeout := 5 * time.Second
	if seconds, err := strconv.Atoi(os.Getenv("DB_TIMEOUT_SECONDS")); err == nil && seconds > 0 {
		dbTimeout = time.Duration(seconds) * time.Second
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		DB_TIMEOUT:   dbTimeout,
		PORT:         port,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// CORS
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
	}

	return envVariables, nil
}
