package main

// BaseConfig is the application configuration tree. Values load from config
// files and environment overrides through the config container.
type BaseConfig struct {
	Debug       bool        `json:"debug" koanf:"debug"`
	Server      Server      `json:"server" koanf:"server"`
	Persistence Persistence `json:"persistence" koanf:"persistence"`
	Session     Session     `json:"session" koanf:"session"`
	App         App         `json:"app" koanf:"app"`
}

func (c BaseConfig) Validate() error {
	return nil
}

type Server struct {
	Address string `json:"address" koanf:"address"`
}

type Persistence struct {
	DSN string `json:"dsn" koanf:"dsn"`
}

type Session struct {
	CookieName string `json:"cookie_name" koanf:"cookie_name"`
	TTLHours   int    `json:"ttl_hours" koanf:"ttl_hours"`
	RedisAddr  string `json:"redis_addr" koanf:"redis_addr"`
	RedisDB    int    `json:"redis_db" koanf:"redis_db"`
}

type App struct {
	BaseURL   string `json:"base_url" koanf:"base_url"`
	UploadDir string `json:"upload_dir" koanf:"upload_dir"`
}

func (c *BaseConfig) withDefaults() *BaseConfig {
	if c.Server.Address == "" {
		c.Server.Address = ":3000"
	}

	if c.Persistence.DSN == "" {
		c.Persistence.DSN = "file:board.db?cache=shared&mode=rwc"
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "board_session"
	}

	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 24 * 30
	}

	if c.App.BaseURL == "" {
		c.App.BaseURL = "http://localhost:3000"
	}

	if c.App.UploadDir == "" {
		c.App.UploadDir = "./uploads"
	}

	return c
}
