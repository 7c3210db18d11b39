package app

import (
	"strings"
	"time"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/utils"
)

type Config struct {
	ServiceName    string
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AllowOrigins   []string
	LabourAPIURL   string
	RedisAddr      string
	RedisPassword  string
}

func LoadConfig(log *logger.Logger) Config {
	serviceName := utils.GetEnv("SERVICE_NAME", "career-pathway-explorer", log)
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	originsRaw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)
	labourAPIURL := utils.GetEnv("LABOUR_API_URL", "", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)

	var origins []string
	for _, o := range strings.Split(originsRaw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		ServiceName:    serviceName,
		Port:           port,
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		AllowOrigins:   origins,
		LabourAPIURL:   labourAPIURL,
		RedisAddr:      redisAddr,
		RedisPassword:  redisPassword,
	}
}
