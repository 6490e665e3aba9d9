package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host; empty disables the audit trail
	DBPort       string
	DBName       string
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for PIN hashing

	Plugins          model.Plugins // plugin flags applied at start-up
	ReservationFeed  string        // provider kind, "none" disables sync
	ReservationURL   string        // provider feed endpoint
	SessionTimeout   time.Duration // idle sign-out, 0 disables
	DefaultFloorName string

	AdminID   string // bootstrap admin employee
	AdminName string
	AdminPIN  string
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       os.Getenv("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       envStr("DB_PORT", "3306"),
		DBName:       os.Getenv("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   envInt("BCRYPT_COST", 10),

		Plugins: model.Plugins{
			Reservation:        envBool("PLUGIN_RESERVATION", false),
			Waitlist:           envBool("PLUGIN_WAITLIST", false),
			OrderNumberDisplay: envBool("PLUGIN_ORDER_NUMBER_DISPLAY", false),
		},
		ReservationFeed:  envStr("RESERVATION_PROVIDER", "none"),
		ReservationURL:   os.Getenv("RESERVATION_FEED_URL"),
		SessionTimeout:   envDur("SESSION_TIMEOUT", 15*time.Minute),
		DefaultFloorName: envStr("DEFAULT_FLOOR_NAME", "Main"),

		AdminID:   envStr("ADMIN_EMPLOYEE_ID", "admin"),
		AdminName: envStr("ADMIN_NAME", "Administrator"),
		AdminPIN:  os.Getenv("ADMIN_PIN"),
	}
	if cfg.DBHost != "" && (cfg.DBUser == "" || cfg.DBName == "") {
		log.Fatalf("DB_HOST is set but DB_USER or DB_NAME is missing")
	}
	if cfg.ReservationFeed != "none" && cfg.ReservationURL == "" {
		log.Fatalf("RESERVATION_PROVIDER=%s needs RESERVATION_FEED_URL", cfg.ReservationFeed)
	}
	return cfg
}

// DBEnabled reports whether a MySQL audit trail is configured.
func (c Config) DBEnabled() bool { return c.DBHost != "" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
