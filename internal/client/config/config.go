// Package config собирает конфигурацию клиента из значений по умолчанию,
// переменных окружения BOOKVAULT_* и флагов командной строки.
// Флаги имеют наивысший приоритет.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/pflag"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "BOOKVAULT_"

// Значения по умолчанию
const (
	DefaultEndpoint    = "http://localhost:4000/graphql"
	DefaultDBPath      = "bookvault.db"
	DefaultJournalPath = "bookvault-journal.db"
)

// ErrInvalidEndpoint возвращается Validate для некорректного URL endpoint
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Config конфигурация клиента
type Config struct {
	Endpoint    string // Endpoint URL GraphQL endpoint
	DBPath      string // DBPath файл BoltDB со снимками коллекций
	JournalPath string // JournalPath файл SQLite с журналом мутаций
	Token       string // Token bearer токен (опционально)
	Verbose     bool   // Verbose debug логирование
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Endpoint:    DefaultEndpoint,
		DBPath:      DefaultDBPath,
		JournalPath: DefaultJournalPath,
	}
}

// ApplyEnv переопределяет значения из окружения.
// lookup обычно os.LookupEnv; в тестах подставляется map.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ENDPOINT": &c.Endpoint,
		"DB":       &c.DBPath,
		"JOURNAL":  &c.JournalPath,
		"TOKEN":    &c.Token,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "VERBOSE"); ok && v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sVERBOSE: %w", EnvPrefix, err)
		}
		c.Verbose = verbose
	}

	return nil
}

// BindFlags регистрирует флаги. Текущие значения c становятся значениями
// по умолчанию, поэтому ApplyEnv нужно вызвать до BindFlags.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "GraphQL endpoint URL ("+EnvPrefix+"ENDPOINT)")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "path to local snapshot database ("+EnvPrefix+"DB)")
	fs.StringVar(&c.JournalPath, "journal", c.JournalPath, "path to mutation journal database ("+EnvPrefix+"JOURNAL)")
	fs.StringVar(&c.Token, "token", c.Token, "bearer token for the endpoint ("+EnvPrefix+"TOKEN)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "enable debug logging ("+EnvPrefix+"VERBOSE)")
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	if c.DBPath == "" {
		return errors.New("snapshot database path cannot be empty")
	}
	if c.JournalPath == "" {
		return errors.New("journal database path cannot be empty")
	}
	return nil
}
