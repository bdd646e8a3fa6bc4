package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Route styles understood by the backend client.
const (
	RouteStyleAction = "action" // /{resource}/update, /{resource}/remove/{id}
	RouteStyleREST   = "rest"   // /{resource}/{id}
)

// Backend drivers.
const (
	BackendDriverHTTP   = "http"
	BackendDriverMemory = "memory"
)

type Config struct {
	Env          string
	Build        string
	AppName      string
	Debug        bool
	TestMode     bool
	WorkDir      string
	RollbarToken string

	Server struct {
		Addr            string
		Host            string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
		DisableCSRF     bool
	}

	Backend struct {
		Driver     string
		BaseURL    string
		RouteStyle string
		Timeout    time.Duration
	}

	UI struct {
		NotificationTimeout time.Duration
		SearchDebounce      time.Duration
	}
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Gradebook")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.disableCSRF", false)
	v.SetDefault("backend.driver", BackendDriverHTTP)
	v.SetDefault("backend.baseURL", "http://localhost:8000/api")
	v.SetDefault("backend.routeStyle", RouteStyleAction)
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("ui.notificationTimeout", 5*time.Second)
	v.SetDefault("ui.searchDebounce", 250*time.Millisecond)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		WorkDir:      wd,
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Server.Addr = v.GetString("server.addr")
	conf.Server.Host = v.GetString("server.host")
	conf.Server.DebugHost = v.GetString("server.debugHost")
	conf.Server.ReadTimeout = v.GetDuration("server.readTimeout")
	conf.Server.WriteTimeout = v.GetDuration("server.writeTimeout")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Server.DisableReqLogs = v.GetBool("server.disableReqLogs")
	conf.Server.DisableCSRF = v.GetBool("server.disableCSRF")

	conf.Backend.Driver = strings.ToLower(v.GetString("backend.driver"))
	conf.Backend.BaseURL = strings.TrimRight(v.GetString("backend.baseURL"), "/")
	conf.Backend.RouteStyle = strings.ToLower(v.GetString("backend.routeStyle"))
	conf.Backend.Timeout = v.GetDuration("backend.timeout")

	conf.UI.NotificationTimeout = v.GetDuration("ui.notificationTimeout")
	conf.UI.SearchDebounce = v.GetDuration("ui.searchDebounce")
	return conf
}
