package cliparse

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabasePath string
	StaticDir    string
	AdminSecret  string

	MirrorDriver    string
	MirrorDSN       string
	MirrorBatchSize int
}

// MirrorConfigured reports whether a secondary store was provided
func (c Config) MirrorConfigured() bool {
	return c.MirrorDSN != ""
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first when present.
func ParseFlags(args []string) (Config, error) {
	// Missing .env is fine; real environment variables always win
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("danp-survey", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabasePath, "d", "", "SQLite database file")
	fs.StringVar(&cfg.StaticDir, "static", "", "Directory with survey and admin pages")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminSecret, "admin-secret", "", "Admin secret (prefer env)")
	fs.StringVar(&cfg.MirrorDriver, "mirror-driver", "", "Mirror driver (mysql, postgres or sqlite)")
	fs.StringVar(&cfg.MirrorDSN, "mirror-dsn", "", "Mirror connection string (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000
		}
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "data/survey.db"
	}

	if cfg.StaticDir == "" {
		cfg.StaticDir = os.Getenv("STATIC_DIR")
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "public"
	}

	if cfg.AdminSecret == "" {
		cfg.AdminSecret = os.Getenv("ADMIN_SECRET")
	}
	if cfg.AdminSecret == "" {
		return Config{}, errors.New("ADMIN_SECRET required")
	}

	if cfg.MirrorDriver == "" {
		cfg.MirrorDriver = os.Getenv("MIRROR_DRIVER")
	}
	if cfg.MirrorDriver == "" {
		cfg.MirrorDriver = "mysql"
	}

	if cfg.MirrorDSN == "" {
		cfg.MirrorDSN = os.Getenv("MIRROR_DSN")
	}
	if cfg.MirrorDSN == "" && cfg.MirrorDriver == "mysql" {
		dsn, err := mysqlDSNFromEnv()
		if err != nil {
			return Config{}, err
		}
		cfg.MirrorDSN = dsn
	}

	cfg.MirrorBatchSize = 100
	if s := os.Getenv("MIRROR_BATCH_SIZE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return Config{}, errors.New("invalid MIRROR_BATCH_SIZE env variable")
		}
		cfg.MirrorBatchSize = n
	}

	return cfg, nil
}

// mysqlDSNFromEnv assembles a MySQL DSN from MIRROR_HOST and friends.
// Returns an empty DSN when MIRROR_HOST is unset.
func mysqlDSNFromEnv() (string, error) {
	host := os.Getenv("MIRROR_HOST")
	if host == "" {
		return "", nil
	}

	port := os.Getenv("MIRROR_PORT")
	if port == "" {
		port = "3306"
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", errors.New("invalid MIRROR_PORT env variable")
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, port)
	mc.User = os.Getenv("MIRROR_USER")
	mc.Passwd = os.Getenv("MIRROR_PASSWORD")
	mc.DBName = os.Getenv("MIRROR_DATABASE")
	mc.Timeout = 10 * time.Second
	mc.Params = map[string]string{"charset": "utf8mb4"}

	return mc.FormatDSN(), nil
}
