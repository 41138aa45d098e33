package basicpitch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/storage"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/transcribe"
)

type Config struct {
	DBPath     string
	TempDir    string
	ConfigFile string
	Processor  transcribe.ProcessorConfig
	Logger     Logger
	Storage    Storage
	Predictor  transcribe.Predictor
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithTempDir(dir string) Option {
	return func(c *Config) {
		c.TempDir = dir
	}
}

func WithConfigFile(path string) Option {
	return func(c *Config) {
		c.ConfigFile = path
	}
}

func WithProcessorConfig(pc transcribe.ProcessorConfig) Option {
	return func(c *Config) {
		c.Processor = pc
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func WithPredictor(p transcribe.Predictor) Option {
	return func(c *Config) {
		c.Predictor = p
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:    storage.DefaultDBFile,
		TempDir:   "/tmp",
		Processor: transcribe.DefaultProcessorConfig(),
	}
}

// fileConfig is the YAML shape of an on-disk config file.
type fileConfig struct {
	DBPath    string                      `yaml:"db_path"`
	TempDir   string                      `yaml:"temp_dir"`
	Processor *transcribe.ProcessorConfig `yaml:"processor"`
}

var configGuesses = []string{
	"basicpitch.yaml",
	filepath.Join("config", "basicpitch.yaml"),
}

// loadConfigFile merges an on-disk YAML config into cfg. The path comes
// from cfg.ConfigFile, then BASICPITCH_CONFIG, then the guess list. A
// missing guessed file is fine; a missing explicit one is an error.
func loadConfigFile(cfg *Config) error {
	path := cfg.ConfigFile
	if path == "" {
		path = os.Getenv("BASICPITCH_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		for _, guess := range configGuesses {
			if _, err := os.Stat(guess); err == nil {
				path = guess
				break
			}
		}
	}
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	pc := cfg.Processor
	fc := fileConfig{Processor: &pc}
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.TempDir != "" {
		cfg.TempDir = fc.TempDir
	}
	cfg.Processor = pc
	return nil
}
