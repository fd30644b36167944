package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
)

// GetEnv loads .env (if any) and fills Config from the environment.
// A variable without an envDefault tag is required.
func GetEnv() (config *Config, er error) {
	err := godotenv.Load()
	if err != nil {
		_ = godotenv.Load("../../.env")
	}

	config = &Config{}
	if err := Load(config); err != nil {
		return nil, err
	}

	if !config.AppEnv.IsValid() {
		return nil, fmt.Errorf("invalid APP_ENV %q", config.AppEnv)
	}

	return config, nil
}

// Load fills any struct pointer tagged with env/envDefault from the environment.
func Load(target any) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		value, exists := os.LookupEnv(envTag)
		if !exists {
			def, hasDefault := field.Tag.Lookup("envDefault")
			if !hasDefault {
				return fmt.Errorf("environment variable %s not set", envTag)
			}
			value = def
		}

		switch field.Type.Kind() {
		case reflect.String:
			v.Field(i).SetString(value)
		case reflect.Int, reflect.Int64:
			intValue, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %v", envTag, err)
			}
			v.Field(i).SetInt(int64(intValue))
		case reflect.Bool:
			boolValue, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean value for %s: %v", envTag, err)
			}
			v.Field(i).SetBool(boolValue)
		default:
			panic("unhandled default case")
		}
	}

	return nil
}
