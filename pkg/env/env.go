package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	// Domain is the public base URL of this service (e.g. https://xxx.ngrok-free.app).
	// Twilio must be able to reach it for the /twiml callback and the /ws stream.
	Domain string

	// Gemini Live
	GeminiAPIKey string
	GeminiModel  string
	GeminiVoice  string

	// Twilio
	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioPhoneNumber       string
	TwilioValidateSignature bool

	PersonaFile string

	CORSAllowedOrigins string

	// Rate limiting on /call, active only when RedisURL is set
	RedisURL        string
	APIRateLimitRPM int

	OTELEnabled  bool
	OTELEndpoint string
}

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// Try to load .env file, but don't fail if it doesn't exist -
		// production deployments configure via environment variables only.
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8520"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Domain: strings.TrimRight(getEnv("DOMAIN", ""), "/"),

		GeminiAPIKey: getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", "")),
		GeminiModel:  getEnv("GEMINI_MODEL", "models/gemini-2.5-flash-native-audio-preview-12-2025"),
		GeminiVoice:  getEnv("GEMINI_VOICE", "Charon"),

		TwilioAccountSID:        getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:         getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber:       getEnv("TWILIO_PHONE_NUMBER", ""),
		TwilioValidateSignature: getEnvBool("TWILIO_VALIDATE_SIGNATURE", false),

		PersonaFile: getEnv("PERSONA_FILE", "data/personas.json"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		RedisURL:        getEnv("REDIS_URL", ""),
		APIRateLimitRPM: getEnvInt("API_RATE_LIMIT_RPM", 60),

		OTELEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint: getEnv("OTEL_ENDPOINT", ""),
	}

	return cfg, nil
}

// WebSocketURL derives the wss:// URL Twilio should open the media stream to.
func (c *Config) WebSocketURL() string {
	if c.Domain == "" {
		return ""
	}
	ws := c.Domain
	ws = strings.Replace(ws, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "wss://", 1)
	return ws + "/ws"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}
