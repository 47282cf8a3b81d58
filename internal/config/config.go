// Package config loads crawlgraph settings from defaults, an optional TOML
// file and CRAWLGRAPH_* environment variables, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/v0xg/crawlgraph/internal/errors"
)

// FileName is the project config file looked up in the working directory
const FileName = "crawlgraph.toml"

// Config is the full configuration tree
type Config struct {
	Layout  LayoutConfig  `mapstructure:"layout"`
	Display DisplayConfig `mapstructure:"display"`
	AI      AIConfig      `mapstructure:"ai"`
	Server  ServerConfig  `mapstructure:"server"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
}

// LayoutConfig selects the default layout algorithm and its seed
type LayoutConfig struct {
	Default string `mapstructure:"default"`
	Seed    int64  `mapstructure:"seed"`
}

// DisplayConfig bounds what is handed to the renderer
type DisplayConfig struct {
	MaxNodes   int               `mapstructure:"max_nodes"`
	NodeColors map[string]string `mapstructure:"node_colors"`
}

// AIConfig configures the test-case suggestion provider
type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	GeminiKey    string        `mapstructure:"gemini_key"`
	AnthropicKey string        `mapstructure:"anthropic_key"`
	OpenAIKey    string        `mapstructure:"openai_key"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
	// MaxRenderPx bounds each side of a rendered preview
	MaxRenderPx int `mapstructure:"max_render_px"`
}

// CrawlConfig configures the headless crawler
type CrawlConfig struct {
	MaxPages int           `mapstructure:"max_pages"`
	MaxDepth int           `mapstructure:"max_depth"`
	Width    int           `mapstructure:"width"`
	Height   int           `mapstructure:"height"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Stealth  bool          `mapstructure:"stealth"`
}

// SetDefaults registers default values for every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("layout.default", "spring")
	v.SetDefault("layout.seed", 42)

	v.SetDefault("display.max_nodes", 1000)
	v.SetDefault("display.node_colors", DefaultNodeColors())

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.timeout", 30*time.Second)

	v.SetDefault("server.addr", "127.0.0.1:8501")
	v.SetDefault("server.max_body_bytes", 32<<20)
	v.SetDefault("server.max_render_px", 4096)

	v.SetDefault("crawl.max_pages", 25)
	v.SetDefault("crawl.max_depth", 3)
	v.SetDefault("crawl.width", 1280)
	v.SetDefault("crawl.height", 720)
	v.SetDefault("crawl.timeout", 30*time.Second)
	v.SetDefault("crawl.stealth", false)
}

// bindSecrets maps provider keys to their conventional environment variables.
// The CRAWLGRAPH_ prefixed name wins over the vendor one.
func bindSecrets(v *viper.Viper) {
	_ = v.BindEnv("ai.gemini_key", "CRAWLGRAPH_GEMINI_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("ai.anthropic_key", "CRAWLGRAPH_ANTHROPIC_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("ai.openai_key", "CRAWLGRAPH_OPENAI_KEY", "OPENAI_API_KEY")
}

// New builds a viper instance with defaults and environment binding applied.
// When path is empty, crawlgraph.toml in the working directory is used if it
// exists.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("CRAWLGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindSecrets(v)
	SetDefaults(v)

	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			candidate := filepath.Join(wd, FileName)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}
	return v, nil
}

// Load reads the configuration. See New for file lookup.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes an already prepared viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if cfg.Display.MaxNodes <= 0 {
		return nil, errors.WithHintf(
			errors.Newf("display.max_nodes must be positive, got %d", cfg.Display.MaxNodes),
			"remove the key from %s to use the default", FileName)
	}
	return &cfg, nil
}

// NodeColor returns the display colour for a role, or the neutral grey used
// for unknown roles and attribute-less vertices.
func (c DisplayConfig) NodeColor(role string) string {
	if color, ok := c.NodeColors[role]; ok {
		return color
	}
	return DefaultNodeColor
}

// DefaultNodeColor is used when a role has no configured colour
const DefaultNodeColor = "#D3D3D3"

// DefaultNodeColors returns the stock role palette
func DefaultNodeColors() map[string]string {
	return map[string]string{
		"guest": "#90EE90",
		"user":  "#87CEEB",
		"admin": "#FFB6C1",
	}
}
