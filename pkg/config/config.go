package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"stillgrove.com/tcgshelf/pkg/collection"
)

// Backends that can hold the catalog
const (
	BackendBadger   = "badger"
	BackendMemory   = "memory"
	BackendDynamo   = "dynamodb"
	BackendPostgres = "postgres"
)

var Backends = []string{BackendBadger, BackendMemory, BackendDynamo, BackendPostgres}

type badgerConfig struct {
	Path string `yaml:"path"`
	TTL  string `yaml:"ttl"`
}
type dynamoConfig struct {
	Region string `yaml:"region"`
	Table  string `yaml:"table"`
}
type postgresConfig struct {
	Table string `yaml:"table"`
}
type backupConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Dir  string `yaml:"dir"`
	Keep int    `yaml:"keep"`
}

// secrets never live in the config file
type secrets struct {
	DynamoID     string `envconfig:"DYNAMO_ID"`
	DynamoSecret string `envconfig:"DYNAMO_SECRET"`
	PostgresDSN  string `envconfig:"POSTGRES_DSN"`
	SFTPPass     string `envconfig:"SFTP_PASS"`
}

// File contains all settings of a tcgshelf installation
type File struct {
	Backend  string         `yaml:"backend"`
	LogLevel string         `yaml:"log_level"`
	Badger   badgerConfig   `yaml:"badger"`
	Dynamo   dynamoConfig   `yaml:"dynamodb"`
	Postgres postgresConfig `yaml:"postgres"`
	Backup   backupConfig   `yaml:"backup"`
	secrets  secrets
}

// Default returns the settings used without a config file
func Default() *File {
	return &File{
		Backend:  BackendBadger,
		LogLevel: "info",
		Badger:   badgerConfig{Path: "data"},
		Postgres: postgresConfig{Table: "tcgshelf"},
		Backup:   backupConfig{Port: 22, Dir: "tcgshelf", Keep: 7},
	}
}

// New reads the config file at filePath on top of the defaults, then the
// secrets from the environment and an optional .env file.
// An empty filePath skips the file.
func New(filePath string) (cfg *File, err error) {
	cfg = Default()

	if filePath != "" {
		yamlFile, err := os.ReadFile(filePath)
		if err != nil {
			return cfg, fmt.Errorf("Read config - %w", err)
		}
		err = yaml.Unmarshal(yamlFile, cfg)
		if err != nil {
			return cfg, fmt.Errorf("Parse config %s - %w", filePath, err)
		}
	}

	err = godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithField("err", err).Warningln("Ignoring unreadable .env file")
	}

	err = envconfig.Process("", &cfg.secrets)
	if err != nil {
		return cfg, fmt.Errorf("Read environment - %w", err)
	}

	return cfg, nil
}

// SetBackend lets you override the backend from the config file
func (cfg *File) SetBackend(backend string) {
	cfg.Backend = backend
}

// GetBackend returns the configured backend - error if unknown
func (cfg *File) GetBackend() (string, error) {
	if !collection.StringInList(cfg.Backend, Backends) {
		return cfg.Backend, fmt.Errorf("Unknown backend %q", cfg.Backend)
	}
	return cfg.Backend, nil
}

// GetLogLevel returns the parsed log level
func (cfg *File) GetLogLevel() (log.Level, error) {
	if cfg.LogLevel == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(cfg.LogLevel)
}

// GetBadger returns directory, ttl, and error. A ttl of 0 keeps entries forever.
func (cfg *File) GetBadger() (path string, ttl time.Duration, err error) {
	if cfg.Badger.Path == "" {
		return path, ttl, fmt.Errorf("Empty path in badger config")
	}
	if cfg.Badger.TTL != "" {
		ttl, err = time.ParseDuration(cfg.Badger.TTL)
		if err != nil {
			return cfg.Badger.Path, 0, fmt.Errorf("Invalid badger ttl - %w", err)
		}
	}
	return cfg.Badger.Path, ttl, nil
}

// GetDynamo returns Region, ID, Secret, Table, and error
func (cfg *File) GetDynamo() (region, id, secret, table string, err error) {
	if collection.AnyEmpty(
		[]*string{
			&cfg.Dynamo.Region,
			&cfg.secrets.DynamoID,
			&cfg.secrets.DynamoSecret,
			&cfg.Dynamo.Table,
		},
	) {
		return region, id, secret, table, fmt.Errorf("Empty fields in dynamo config")
	}
	return cfg.Dynamo.Region, cfg.secrets.DynamoID, cfg.secrets.DynamoSecret, cfg.Dynamo.Table, nil
}

// GetPostgres returns DSN, Table, and error
func (cfg *File) GetPostgres() (dsn, table string, err error) {
	if cfg.secrets.PostgresDSN == "" || cfg.Postgres.Table == "" {
		return dsn, table, fmt.Errorf("Empty fields in postgres config")
	}
	return cfg.secrets.PostgresDSN, cfg.Postgres.Table, nil
}

// GetSFTP returns host, port, username, password, and error
func (cfg *File) GetSFTP() (string, int, string, string, error) {
	b := cfg.Backup
	if b.Host == "" || b.User == "" {
		return b.Host, b.Port, b.User, cfg.secrets.SFTPPass, errors.New("Couldn't load SFTP config")
	}
	return b.Host, b.Port, b.User, cfg.secrets.SFTPPass, nil
}

// GetBackupTarget returns the remote directory and how many backups to keep
func (cfg *File) GetBackupTarget() (dir string, keep int) {
	return cfg.Backup.Dir, cfg.Backup.Keep
}
