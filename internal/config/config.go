package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host          string        `koanf:"host"`
	Currency      string        `koanf:"currency"`
	Telegram      Telegram      `koanf:"telegram"`
	Notifications Notifications `koanf:"notifications"`
	Storage       Storage       `koanf:"storage"`
	Database      Database      `koanf:"db"`
}

type Telegram struct {
	Token           string `koanf:"token"`
	PollTimeoutSecs int    `koanf:"polltimeoutsecs"`
}

type Notifications struct {
	// Hour and Minute name the local time of day the daily sweep fires at.
	Hour       int    `koanf:"hour"`
	Minute     int    `koanf:"minute"`
	WindowDays int    `koanf:"windowdays"`
	Timezone   string `koanf:"timezone"`
}

type Storage struct {
	// Driver selects the ledger backend: "file" or "postgres".
	Driver string `koanf:"driver"`
	File   string `koanf:"file"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host:     ":8080",
		Currency: "₽",
		Telegram: Telegram{
			PollTimeoutSecs: 30,
		},
		Notifications: Notifications{
			Hour:       10,
			Minute:     0,
			WindowDays: 7,
			Timezone:   "Local",
		},
		Storage: Storage{
			Driver: "file",
			File:   "data.json",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "budgetbot",
			Pass:   "",
			Name:   "budgetbot",
			Schema: "budgetbot",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "BUDGETBOT_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "BUDGETBOT_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
