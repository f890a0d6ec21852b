package config

import "os"

type Config struct {
	ListenAddr     string
	DBPath         string
	MirrorXLSXPath string
	ExpiryCron     string
	LogLevel       string
	LogFile        string
}

func Load() *Config {
	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "data/foodledger.db"),
		MirrorXLSXPath: getEnv("MIRROR_XLSX_PATH", "data/food_rescue_entries.xlsx"),
		ExpiryCron:     getEnv("EXPIRY_CRON", "0 */2 * * *"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
