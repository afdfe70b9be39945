package environment_variables

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type EnvironmentVariable struct {
	HTTP_PORT          int
	JWT_SECRET         []byte
	ALLOWED_CORS_HOSTS []string
	ENABLE_PROFILING   bool

	DB_POSTGRESQL_WRITE_DSN string
	DB_POSTGRESQL_READ1_DSN string
	DB_AUTO_MIGRATE         bool

	CACHE_TYPE           string
	CACHE_URL            string
	CACHE_PASSWORD       string
	CACHE_DB             string
	CACHE_KEY_PREFIX     string
	CACHE_CODEC          string
	CACHE_ON_STORE_ERROR string

	PAYMENT_GATEWAY_URL     string
	PAYMENT_GATEWAY_API_KEY string
	PAYMENT_CALLBACK_SECRET string

	SMTP_HOST         string
	SMTP_PORT         int
	SMTP_USERNAME     string
	SMTP_PASSWORD     string
	SMTP_SENDER_EMAIL string

	LOG_LEVEL  string
	LOG_FORMAT string
}

// LoadFromEnv fills the struct from CONFIG_FILE (if set) and then from the
// process environment. Field names are the variable names.
func (ev *EnvironmentVariable) LoadFromEnv() {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := ev.LoadFromFile(path); err != nil {
			fmt.Printf("Invalid CONFIG_FILE %s: %v\n", path, err)
		}
	}
	ev.loadFromLookup(os.LookupEnv)
}

// LoadFromFile reads a flat YAML or TOML document keyed by variable name.
func (ev *EnvironmentVariable) LoadFromFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	values := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &values)
	case ".toml":
		err = toml.Unmarshal(content, &values)
	default:
		return fmt.Errorf("unsupported config file extension: %s", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	ev.loadFromLookup(func(key string) (string, bool) {
		v, ok := values[key]
		if !ok || v == nil {
			return "", false
		}
		if list, isList := v.([]any); isList {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			return strings.Join(parts, ","), true
		}
		return fmt.Sprint(v), true
	})
	return nil
}

func (ev *EnvironmentVariable) loadFromLookup(lookup func(string) (string, bool)) {
	v := reflect.ValueOf(ev).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envValue, ok := lookup(field.Name)
		if !ok || envValue == "" {
			continue
		}
		if err := setField(v.Field(i), envValue); err != nil {
			fmt.Printf("Invalid SYSENV %s: %v\n", field.Name, err)
		}
	}
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case reflect.Slice:
		switch field.Type().Elem().Kind() {
		case reflect.Uint8:
			field.SetBytes([]byte(value))
		case reflect.String:
			parts := strings.Split(value, ",")
			items := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					items = append(items, p)
				}
			}
			field.Set(reflect.ValueOf(items))
		default:
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}

// Singleton
var EnvironmentVariables = EnvironmentVariable{
	HTTP_PORT:            8080,
	CACHE_TYPE:           "redis",
	CACHE_KEY_PREFIX:     "evm:",
	CACHE_CODEC:          "json",
	CACHE_ON_STORE_ERROR: "bypass",
	SMTP_PORT:            587,
	LOG_LEVEL:            "info",
	LOG_FORMAT:           "json",
}
