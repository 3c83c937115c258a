package pilot_config

import (
	"net/url"
	"os"
	"strconv"
)

type DatabaseConfiguration struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DatabaseFromEnvironmentWithFallback reads the DATABASE_* variables and
// uses the given values for any that are unset.
func DatabaseFromEnvironmentWithFallback(host string, port int, username string, password string, database string) DatabaseConfiguration {
	cfg := DatabaseConfiguration{
		Host:     os.Getenv("DATABASE_HOST"),
		Port:     os.Getenv("DATABASE_PORT"),
		Username: os.Getenv("DATABASE_USERNAME"),
		Password: os.Getenv("DATABASE_PASSWORD"),
		Database: os.Getenv("DATABASE_DATABASE"),
	}
	if cfg.Host == "" {
		cfg.Host = host
	}
	if cfg.Port == "" {
		cfg.Port = strconv.Itoa(port)
	}
	if cfg.Username == "" {
		cfg.Username = username
	}
	if cfg.Password == "" {
		cfg.Password = password
	}
	if cfg.Database == "" {
		cfg.Database = database
	}
	return cfg
}

func (self *DatabaseConfiguration) GetConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(self.Username, self.Password),
		Host:   self.Host + ":" + self.Port,
		Path:   "/" + self.Database,
	}
	return u.String()
}

// withEnvironment overlays any DATABASE_* variables onto self.
func (self DatabaseConfiguration) withEnvironment() DatabaseConfiguration {
	port, err := strconv.Atoi(self.Port)
	if err != nil {
		port = 5432
	}
	return DatabaseFromEnvironmentWithFallback(self.Host, port, self.Username, self.Password, self.Database)
}
