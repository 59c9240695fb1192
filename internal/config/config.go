package config

import (
	"fmt"
	"os"
	"strings"

	"adte.com/adte/tv-agent/internal/tool"
)

type Config struct {
	BackendBaseURL string
	HttpAddress    string
	JwtSecretKey   string
	ApiKey         string
	Log            *LogConfig
	MCP            *MCPConfig
}

type LogConfig struct {
	Level string
}

type MCPConfig struct {
	Transport string
	Enabled   bool
}

func NewConfig() (*Config, error) {

	// Backend ad-serving API
	backendBaseURL := os.Getenv("BACKEND_BASE_URL")
	if backendBaseURL == "" {
		return nil, fmt.Errorf("missing environment variable: BACKEND_BASE_URL")
	}

	// Server configuration
	httpAddress := os.Getenv("HTTP_ADDRESS")
	if httpAddress == "" {
		return nil, fmt.Errorf("missing environment variable: HTTP_ADDRESS")
	}

	jwtSecretKey := tool.GetFileValue("JWT_SECRET_KEY")
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("missing environment variable: JWT_SECRET_KEY")
	}

	apiKey := tool.GetFileValue("ADCP_API_KEY")

	// Logging configuration
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))

	// MCP configuration
	mcpTransport := os.Getenv("MCP_TRANSPORT")
	mcpEnabled := mcpTransport != ""

	return &Config{
		BackendBaseURL: backendBaseURL,
		HttpAddress:    httpAddress,
		JwtSecretKey:   jwtSecretKey,
		ApiKey:         apiKey,
		Log: &LogConfig{
			Level: logLevel,
		},
		MCP: &MCPConfig{
			Transport: mcpTransport,
			Enabled:   mcpEnabled,
		},
	}, nil
}
