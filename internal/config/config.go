package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	AppName         = "mailscope"
	DefaultIMAPPort = 993
	DefaultFolder   = "INBOX"
	DefaultLimit    = 100
)

type AccountConfig struct {
	Email  string `yaml:"email"`
	Server string `yaml:"server,omitempty"` // auto-detected from the email domain when empty
	Port   int    `yaml:"port,omitempty"`
}

type DefaultsConfig struct {
	Folder string `yaml:"folder"`
	Limit  int    `yaml:"limit"`
}

type Config struct {
	Account  AccountConfig  `yaml:"account"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

func DefaultConfig() *Config {
	return &Config{
		Account: AccountConfig{
			Port: DefaultIMAPPort,
		},
		Defaults: DefaultsConfig{
			Folder: DefaultFolder,
			Limit:  DefaultLimit,
		},
	}
}

func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s - run 'mailscope config init' to create one", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) SetPassword(password string) error {
	if c.Account.Email == "" {
		return errors.New("email must be set before storing password")
	}
	return keyring.Set(AppName, c.Account.Email, password)
}

func (c *Config) GetPassword() (string, error) {
	if c.Account.Email == "" {
		return "", errors.New("email not configured")
	}
	password, err := keyring.Get(AppName, c.Account.Email)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("password not found in keyring - run 'mailscope config init' to set it")
		}
		return "", fmt.Errorf("failed to get password from keyring: %w", err)
	}
	return password, nil
}

func DeletePassword(email string) error {
	return keyring.Delete(AppName, email)
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
