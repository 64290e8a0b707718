package config

import "time"

type Config struct {
	Web     Web
	DB      DB
	Redis   Redis
	Session Session
	Cors    Cors
	Rate    Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost"`
	Name       string `conf:"default:storefront"`
	DisableTLS bool   `conf:"default:true"`
}

type Redis struct {
	Address  string `conf:"default:localhost:6379"`
	Password string `conf:"mask"`
	DB       int    `conf:"default:0"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

type Cors struct {
	Origin string
}

type Rate struct {
	Burst  int     `conf:"default:20"`
	RPS    float64 `conf:"default:10"`
	Expiry int     `conf:"default:60"`
}
