package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultConnectionCap = 100
	DefaultAvatarSize    = 96
	DefaultDBName        = "tightknit"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	DBUser        string
	DBPass        string
	DBHost        string
	DBName        string
	FEOrigins     []string
	GinMode       string
	ConnectionCap int
	AvatarSize    int
	PhotoBucket   string
}

// Load reads the environment and fails on anything the server cannot run
// without. PhotoBucket is optional; without it photo references are accepted
// unverified.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          os.Getenv("PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        os.Getenv("DB_HOST"),
		DBName:        os.Getenv("DB_NAME"),
		GinMode:       os.Getenv("GIN_MODE"),
		PhotoBucket:   os.Getenv("PHOTO_BUCKET"),
		ConnectionCap: DefaultConnectionCap,
		AvatarSize:    DefaultAvatarSize,
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("$PORT must be set")
	}
	for envVar, val := range map[string]string{
		"DB_USER": cfg.DBUser,
		"DB_PASS": cfg.DBPass,
		"DB_HOST": cfg.DBHost,
	} {
		if val == "" {
			return nil, fmt.Errorf("$%v must be set", envVar)
		}
	}
	if cfg.DBName == "" {
		cfg.DBName = DefaultDBName
	}
	if origins := os.Getenv("FE_ORIGINS"); origins != "" {
		cfg.FEOrigins = strings.Split(origins, ";")
	}
	if rawCap := os.Getenv("CONNECTION_CAP"); rawCap != "" {
		parsedCap, err := strconv.Atoi(rawCap)
		if err != nil || parsedCap < 1 {
			return nil, fmt.Errorf("$CONNECTION_CAP must be a positive integer, got %q", rawCap)
		}
		cfg.ConnectionCap = parsedCap
	}
	if rawSize := os.Getenv("AVATAR_SIZE"); rawSize != "" {
		parsedSize, err := strconv.Atoi(rawSize)
		if err != nil || parsedSize < 1 {
			return nil, fmt.Errorf("$AVATAR_SIZE must be a positive integer, got %q", rawSize)
		}
		cfg.AvatarSize = parsedSize
	}
	return cfg, nil
}
