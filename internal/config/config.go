package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and day windows.
type Config struct {
	Env                 string // application environment (e.g. "dev", "prod")
	Port                string // HTTP port to listen on
	DBUser              string // database username
	DBPass              string // database password (optional)
	DBHost              string // database host address
	DBPort              string // database port number
	DBName              string // database name
	JWTSecret           string // secret used to sign JWTs
	AccessTTLMin        int    // access token time‑to‑live in minutes
	RefreshTTLDays      int    // refresh token time‑to‑live in days
	BcryptCost          int    // bcrypt cost for password hashing
	UploadDir           string // directory uploaded policy documents are stored in
	ExpiringSoonDays    int    // renewal window used by status derivation
	HighlightWindowDays int    // look-ahead window for the board's expiring highlight
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The two day windows
// default to 30 and 60 days and stay independent on purpose: the first
// drives policy status, the second the assignment-board highlight.
func Load() Config {
	return Config{
		Env:                 must("APP_ENV"),             // environment (dev/test/prod)
		Port:                must("APP_PORT"),            // port to bind the HTTP server
		DBUser:              must("DB_USER"),             // database user
		DBPass:              os.Getenv("DB_PASS"),        // database password (empty allowed)
		DBHost:              must("DB_HOST"),             // database host
		DBPort:              must("DB_PORT"),             // database port
		DBName:              must("DB_NAME"),             // database name
		JWTSecret:           must("JWT_SECRET"),          // secret used for signing JWTs
		AccessTTLMin:        mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays:      mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:          mustInt("BCRYPT_COST"),      // bcrypt cost factor
		UploadDir:           optional("UPLOAD_DIR", "uploads"),        // where policy documents land
		ExpiringSoonDays:    optionalInt("EXPIRING_SOON_DAYS", 30),    // status renewal window
		HighlightWindowDays: optionalInt("EXPIRY_HIGHLIGHT_DAYS", 60), // board highlight window
	}
}

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
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// optional returns the environment value or a default when unset.
func optional(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// optionalInt returns the integer environment value or a default when
// unset or unparseable.  Day windows must stay positive.
func optionalInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
