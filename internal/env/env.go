package env

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AppEnv           = "APP_ENV"
	HTTPAddr         = "HTTP_ADDR"
	CorsAllow        = "CORS_ALLOW"
	SendQueueSize    = "SEND_QUEUE_SIZE"
	HTTPWorkers      = "HTTP_WORKERS"
	HTTPQueueSize    = "HTTP_QUEUE_SIZE"
	AuditWorkers     = "AUDIT_WORKERS"
	AuditQueueSize   = "AUDIT_QUEUE_SIZE"
	AWSRegion        = "AWS_REGION"
	AWSID            = "AWS_ID"
	AWSSecret        = "AWS_SECRET"
	AWSToken         = "AWS_TOKEN"
	DynamoDBEndpoint = "DYNAMODB_ENDPOINT"
	AuditTable       = "AUDIT_TABLE"
	ChatRedisURL     = "CHAT_REDIS_URL"
	ChatRedisPass    = "CHAT_REDIS_PASS"
	ChatRedisChannel = "CHAT_REDIS_CHANNEL"
)

type Config struct {
	Env           string
	HTTPAddr      string
	CorsAllow     []string
	SendQueueSize int

	HTTPWorkers    int
	HTTPQueueSize  int
	AuditWorkers   int
	AuditQueueSize int

	AWSRegion        string
	AWSID            string
	AWSSecret        string
	AWSToken         string
	DynamoDBEndpoint string
	AuditTable       string

	RedisURL     string
	RedisPass    string
	RedisChannel string
}

// DynamoEnabled reports whether audit events go to DynamoDB.
func (c Config) DynamoEnabled() bool {
	return c.AuditTable != ""
}

func (c Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// Load reads an optional .env file in the working directory and builds the
// configuration from the process environment. Variables already set win
// over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		Env:           GetOrDefault(AppEnv, "dev"),
		HTTPAddr:      GetOrDefault(HTTPAddr, ":8080"),
		CorsAllow:     GetListOrDefault(CorsAllow, []string{"*"}),
		SendQueueSize: GetIntOrDefault(SendQueueSize, 64),

		HTTPWorkers:    GetIntOrDefault(HTTPWorkers, 16),
		HTTPQueueSize:  GetIntOrDefault(HTTPQueueSize, 256),
		AuditWorkers:   GetIntOrDefault(AuditWorkers, 2),
		AuditQueueSize: GetIntOrDefault(AuditQueueSize, 1024),

		AWSRegion:        Get(AWSRegion),
		AWSID:            Get(AWSID),
		AWSSecret:        Get(AWSSecret),
		AWSToken:         Get(AWSToken),
		DynamoDBEndpoint: Get(DynamoDBEndpoint),
		AuditTable:       Get(AuditTable),

		RedisURL:     Get(ChatRedisURL),
		RedisPass:    Get(ChatRedisPass),
		RedisChannel: GetOrDefault(ChatRedisChannel, "chat:audit"),
	}

	if cfg.DynamoEnabled() {
		for _, key := range []string{AWSRegion, AWSID, AWSSecret} {
			if Get(key) == "" {
				return Config{}, errors.New("env: " + AuditTable + " is set but " + key + " is missing")
			}
		}
	}
	return cfg, nil
}

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// GetIntOrDefault falls back on missing, malformed or non-positive values.
func GetIntOrDefault(key string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

// GetListOrDefault splits a comma separated value, dropping empty entries.
func GetListOrDefault(key string, defaultVal []string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
