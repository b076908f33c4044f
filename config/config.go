package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de turfflux.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
	Watch  WatchConfig  `yaml:"watch"`
	Log    LogConfig    `yaml:"log"`
}

// APIConfig describe la API turfinfo y la identidad de las llamadas salientes.
type APIConfig struct {
	CandidateBases   []string `yaml:"candidate_bases"` // en orden de preferencia
	PoolKinds        []string `yaml:"pool_kinds"`      // en orden de prioridad
	ProbeTimeoutMS   int      `yaml:"probe_timeout_ms"`
	RequestTimeoutMS int      `yaml:"request_timeout_ms"`
	UserAgent        string   `yaml:"user_agent"`
	Referer          string   `yaml:"referer"`
	Specialisation   string   `yaml:"specialisation"`
	Timezone         string   `yaml:"timezone"`
	RatePerSec       float64  `yaml:"rate_per_sec"`
}

// ServerConfig controla el servidor HTTP del dashboard.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	GinMode string `yaml:"gin_mode"` // debug | release | test
}

// CacheConfig controla dónde vive la cache de enjeux.
type CacheConfig struct {
	Backend           string `yaml:"backend"` // memory | sqlite
	DSN               string `yaml:"dsn"`     // ruta SQLite, o ":memory:"
	TTLHours          int    `yaml:"ttl_hours"`
	PruneEveryMinutes int    `yaml:"prune_every_minutes"`
}

// WatchConfig controla el modo watch de la línea de comandos.
type WatchConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// LogConfig controla el formato, nivel y destino del logging.
type LogConfig struct {
	Level      string `yaml:"level"`  // debug | info | warn | error
	Format     string `yaml:"format"` // text | json
	File       string `yaml:"file"`   // vacío = stdout; si no, rotado con lumberjack
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse interpreta el YAML, aplica overrides de entorno y defaults, y valida.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// ProbeTimeout devuelve el timeout del probe de fuentes.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.API.ProbeTimeoutMS) * time.Millisecond
}

// RequestTimeout devuelve el timeout de cada llamada a la API.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeoutMS) * time.Millisecond
}

// CacheTTL devuelve cuánto tiempo se recuerda un entrant sin observarlo.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// PruneEvery devuelve la frecuencia máxima de limpieza de la cache.
func (c *Config) PruneEvery() time.Duration {
	return time.Duration(c.Cache.PruneEveryMinutes) * time.Minute
}

// WatchInterval devuelve el intervalo de poll del modo watch.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Watch.IntervalSeconds) * time.Second
}

// Location devuelve la zona horaria usada para la fecha del programa.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.API.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TURFFLUX_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TURFFLUX_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("TURFFLUX_CACHE_DSN"); v != "" {
		cfg.Cache.DSN = v
	}
	if v := os.Getenv("TURFFLUX_USER_AGENT"); v != "" {
		cfg.API.UserAgent = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if len(cfg.API.CandidateBases) == 0 {
		cfg.API.CandidateBases = []string{
			"https://online.turfinfo.api.pmu.fr/rest/client/61",
			"https://online.turfinfo.api.pmu.fr/rest/client/1",
			"https://offline.turfinfo.api.pmu.fr/rest/client/7",
		}
	}
	if len(cfg.API.PoolKinds) == 0 {
		// el pari que se juega primero, luego los pools agregados
		cfg.API.PoolKinds = []string{"E_TRIO", "E_SIMPLE_GAGNANT", "E_SIMPLE_PLACE", "SIMPLE_GAGNANT"}
	}
	if cfg.API.ProbeTimeoutMS <= 0 {
		cfg.API.ProbeTimeoutMS = 3000
	}
	if cfg.API.RequestTimeoutMS <= 0 {
		cfg.API.RequestTimeoutMS = 10000
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = "Mozilla/5.0"
	}
	if cfg.API.Referer == "" {
		cfg.API.Referer = "https://www.pmu.fr/"
	}
	if cfg.API.Specialisation == "" {
		cfg.API.Specialisation = "INTERNET"
	}
	if cfg.API.Timezone == "" {
		cfg.API.Timezone = "Europe/Paris"
	}
	if cfg.API.RatePerSec <= 0 {
		cfg.API.RatePerSec = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.GinMode == "" {
		cfg.Server.GinMode = "release"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.DSN == "" {
		cfg.Cache.DSN = ":memory:"
	}
	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = 72
	}
	if cfg.Cache.PruneEveryMinutes <= 0 {
		cfg.Cache.PruneEveryMinutes = 60
	}
	if cfg.Watch.IntervalSeconds <= 0 {
		cfg.Watch.IntervalSeconds = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 100
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 7
	}
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("cache.backend %q: want memory or sqlite", c.Cache.Backend)
	}
	for i, k := range c.API.PoolKinds {
		if k == "" {
			return fmt.Errorf("api.pool_kinds[%d] is empty", i)
		}
	}
	for i, b := range c.API.CandidateBases {
		if b == "" {
			return fmt.Errorf("api.candidate_bases[%d] is empty", i)
		}
	}
	return nil
}
