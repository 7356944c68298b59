package apify

import (
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/vitalk/apify/serializer"
)

const (
	// DefaultBlueprintName names the API in log records.
	DefaultBlueprintName = "api"

	// DefaultDumpTemplateName marks the embedded debug template. Pointing
	// apidump_template at a file on disk replaces it.
	DefaultDumpTemplateName = "apidump.html"

	defaultTimeout = 30 * time.Second

	configPathEnvVar = "APIFY_CONFIG"
	configEnvPrefix  = "APIFY_"
)

// CORSConfig controls the CORS middleware applied to published routes. The
// middleware stays inactive while Origins is empty.
type CORSConfig struct {
	Origins          []string `koanf:"origins"`
	Methods          []string `koanf:"methods"`
	Headers          []string `koanf:"headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
}

// Config carries the recognized extension options. Zero values fall back to
// the defaults documented on each field.
type Config struct {
	// BlueprintName is the namespace the API logs under. Default "api".
	BlueprintName string `koanf:"blueprint_name"`

	// URLPrefix mounts all registered rules under a path prefix, e.g.
	// "/api/v1". Empty means routes are published at the root.
	URLPrefix string `koanf:"url_prefix"`

	// DefaultMimetype selects the serializer used to render error responses
	// when content negotiation fails. Default "application/json".
	DefaultMimetype string `koanf:"default_mimetype"`

	// DumpTemplate is the HTML debug template. The default name keeps the
	// embedded template; any other value is parsed from disk at publish time.
	DumpTemplate string `koanf:"apidump_template"`

	// Timeout bounds request handling via the timeout middleware. Zero
	// disables it.
	Timeout time.Duration `koanf:"timeout"`

	// QuietdownRoutes lists paths excluded from request logging.
	QuietdownRoutes []string `koanf:"quietdown_routes"`

	// HideHeaders lists request headers redacted from log records.
	HideHeaders []string `koanf:"hide_headers"`

	CORS CORSConfig `koanf:"cors"`
}

// DefaultConfig returns the configuration used when no options or config
// sources override it.
func DefaultConfig() Config {
	return Config{
		BlueprintName:   DefaultBlueprintName,
		DefaultMimetype: serializer.MimetypeJSON,
		DumpTemplate:    DefaultDumpTemplateName,
		Timeout:         defaultTimeout,
	}
}

// LoadConfig builds a Config by layering sources, lowest precedence first:
//
//  1. DefaultConfig()
//  2. YAML file named by the APIFY_CONFIG environment variable, if set
//  3. environment variables with the APIFY_ prefix, e.g. APIFY_URL_PREFIX
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	k := koanf.New(".")

	if path := os.Getenv(configPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, err
		}
	}

	envProvider := env.Provider(configEnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, configEnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return cfg, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyDumpTemplateConfig loads the debug template named by the
// apidump_template option. The default name keeps whatever template is
// already registered; a template supplied via WithDumpTemplate wins over the
// config value.
func (a *Apify) applyDumpTemplateConfig() error {
	if a.dumpTemplate != nil || a.cfg.DumpTemplate == DefaultDumpTemplateName {
		return nil
	}
	tmpl, err := template.ParseFiles(a.cfg.DumpTemplate)
	if err != nil {
		return fmt.Errorf("apify: parse apidump template: %w", err)
	}
	a.serializers.Register(serializer.MimetypeHTML, serializer.Debug(tmpl))
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.BlueprintName == "" {
		cfg.BlueprintName = DefaultBlueprintName
	}
	if cfg.DefaultMimetype == "" {
		cfg.DefaultMimetype = serializer.MimetypeJSON
	}
	if cfg.DumpTemplate == "" {
		cfg.DumpTemplate = DefaultDumpTemplateName
	}
}
