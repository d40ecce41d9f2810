package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtExpire int    `yaml:"jwt_expire" json:"jwt_expire"` // admin token lifetime in hours
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"` // postgres or sqlite
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "toughstore",
		Location: "Asia/Karachi",
		Workdir:  "/var/toughstore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-0001-1203-xxtt-0f568ac9da37",
		JwtExpire: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "toughstore",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/toughstore/toughstore.log",
	},
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0755)
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig reads the YAML config file and applies TOUGHSTORE_* environment
// overrides. A missing or empty path falls back to the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("TOUGHSTORE_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("TOUGHSTORE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("TOUGHSTORE_WEB_HOST", &cfg.Web.Host)
	setEnvValue("TOUGHSTORE_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("TOUGHSTORE_WEB_PORT", &cfg.Web.Port)

	setEnvValue("TOUGHSTORE_DB_TYPE", &cfg.Database.Type)
	setEnvValue("TOUGHSTORE_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("TOUGHSTORE_DB_PORT", &cfg.Database.Port)
	setEnvValue("TOUGHSTORE_DB_NAME", &cfg.Database.Name)
	setEnvValue("TOUGHSTORE_DB_USER", &cfg.Database.User)
	setEnvValue("TOUGHSTORE_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("TOUGHSTORE_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("TOUGHSTORE_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("TOUGHSTORE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("TOUGHSTORE_LOGGER_FILENAME", &cfg.Logger.Filename)

	return cfg
}
