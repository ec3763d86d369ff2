package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB opens the MySQL connection described by the DB_* environment
// variables, or by DATABASE_DSN when set.
func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		user := envOr("DB_USER", "root")
		pass := os.Getenv("DB_PASSWORD")
		host := envOr("DB_HOST", "127.0.0.1")
		port := envOr("DB_PORT", "3306")
		name := envOr("DB_NAME", "juicebar")
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			user, pass, host, port, name)
	}

	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
