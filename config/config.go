// Package config loads the crawl settings. Values come from, in increasing
// priority: built-in defaults, an optional YAML file, and ITDASH_* environment
// variables (a .env file in the working directory is loaded first if present).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dszqbsm/itdashboard/limiter"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string `yaml:"logLevel"`

	Site    SiteConfig    `yaml:"site"`
	Output  OutputConfig  `yaml:"output"`
	Browser BrowserConfig `yaml:"browser"`
	Timeout TimeoutConfig `yaml:"timeout"`
	Storage StorageConfig `yaml:"storage"`
}

type SiteConfig struct {
	URL        string `yaml:"url"`
	Agency     string `yaml:"agency"`
	FiscalYear string `yaml:"fiscalYear"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Workbook string `yaml:"workbook"`
	ErrorLog string `yaml:"errorLog"`
}

type BrowserConfig struct {
	Type      string            `yaml:"type"` // chrome or snapshot
	Headless  bool              `yaml:"headless"`
	UserAgent string            `yaml:"userAgent"`
	Proxy     []string          `yaml:"proxy"`
	Limits    []limiter.Rule    `yaml:"limits"`
	Pages     map[string]string `yaml:"pages"` // snapshot only
}

type TimeoutConfig struct {
	Default        time.Duration `yaml:"default"`
	Tiles          time.Duration `yaml:"tiles"`
	LengthSelector time.Duration `yaml:"lengthSelector"`
	Pagination     time.Duration `yaml:"pagination"`
	BusinessCase   time.Duration `yaml:"businessCase"`
	Download       time.Duration `yaml:"download"`
}

type StorageConfig struct {
	SqlURL     string `yaml:"sqlURL"` // empty disables the SQL mirror
	BatchCount int    `yaml:"batchCount"`
}

func Default() Config {
	return Config{
		LogLevel: "INFO",
		Site: SiteConfig{
			URL:        "https://itdashboard.gov/",
			Agency:     "Department of Commerce",
			FiscalYear: "2021",
		},
		Output: OutputConfig{
			Dir:      "output",
			Workbook: filepath.Join("output", "collected_data.xlsx"),
			ErrorLog: filepath.Join("output", "log_file.log"),
		},
		Browser: BrowserConfig{
			Type:     "chrome",
			Headless: true,
			Limits:   []limiter.Rule{{EventCount: 1, EventDur: 1, Bucket: 1}},
		},
		Timeout: TimeoutConfig{
			Default:        10 * time.Second,
			Tiles:          10 * time.Second,
			LengthSelector: 15 * time.Second,
			Pagination:     30 * time.Second,
			BusinessCase:   30 * time.Second,
			Download:       60 * time.Second,
		},
		Storage: StorageConfig{
			BatchCount: 50,
		},
	}
}

// Load reads path on top of the defaults. An empty path or a missing file
// keeps the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"ITDASH_LOG_LEVEL":   &c.LogLevel,
		"ITDASH_URL":         &c.Site.URL,
		"ITDASH_AGENCY":      &c.Site.Agency,
		"ITDASH_FISCAL_YEAR": &c.Site.FiscalYear,
		"ITDASH_OUTPUT_DIR":  &c.Output.Dir,
		"ITDASH_WORKBOOK":    &c.Output.Workbook,
		"ITDASH_ERROR_LOG":   &c.Output.ErrorLog,
		"ITDASH_BROWSER":     &c.Browser.Type,
		"ITDASH_USER_AGENT":  &c.Browser.UserAgent,
		"ITDASH_SQL_URL":     &c.Storage.SqlURL,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if v, ok := lookup("ITDASH_HEADLESS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ITDASH_HEADLESS: %w", err)
		}
		c.Browser.Headless = b
	}
	if v, ok := lookup("ITDASH_PROXY"); ok {
		c.Browser.Proxy = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Browser.Proxy = append(c.Browser.Proxy, p)
			}
		}
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Site.URL == "":
		return errors.New("config: site.url is empty")
	case c.Site.Agency == "":
		return errors.New("config: site.agency is empty")
	case c.Output.Dir == "":
		return errors.New("config: output.dir is empty")
	case c.Output.Workbook == "":
		return errors.New("config: output.workbook is empty")
	}
	return nil
}

// SpendingLabel is the tile label and the second header of the Agencies sheet.
func (c Config) SpendingLabel() string {
	return fmt.Sprintf("Total FY%s Spending:", c.Site.FiscalYear)
}
