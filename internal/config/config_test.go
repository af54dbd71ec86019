package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %q, want human", cfg.Output.Format)
	}
	if cfg.Census.Category != "IfcProduct" {
		t.Errorf("Census.Category = %q, want IfcProduct", cfg.Census.Category)
	}
	if cfg.Glazing.LayerSubstring != "Glass" {
		t.Errorf("Glazing.LayerSubstring = %q, want Glass", cfg.Glazing.LayerSubstring)
	}
	if cfg.Revision.Store != "memory" || cfg.Revision.Algorithm != "sha256" {
		t.Errorf("Revision = %+v, want memory/sha256", cfg.Revision)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"defaults", func(*Config) {}, ""},
		{"version 0", func(c *Config) { c.Version = 0 }, "version"},
		{"version 2", func(c *Config) { c.Version = 2 }, "version"},
		{"level upper case", func(c *Config) { c.Logging.Level = "DEBUG" }, ""},
		{"level empty", func(c *Config) { c.Logging.Level = "" }, ""},
		{"level unknown", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.maxBackups"},
		{"format csv", func(c *Config) { c.Output.Format = "csv" }, ""},
		{"format xml", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"empty layer substring", func(c *Config) { c.Glazing.LayerSubstring = "" }, "glazing.layerSubstring"},
		{"sqlite store", func(c *Config) { c.Revision.Store = "sqlite" }, ""},
		{"unknown store", func(c *Config) { c.Revision.Store = "postgres" }, "revision.store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() returned unexpected error: %v", err)
				}
				return
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() error = %v (%T), want *ConfigError", err, err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:   "version",
		Message: "unsupported config version 99",
	}

	got := err.Error()
	want := "config error in field 'version': unsupported config version 99"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("LoadConfig(no file) = %+v, want defaults", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Output.Format = "json"
	cfg.Glazing.LayerSubstring = "Glazing"
	cfg.Glazing.RepresentationKinds = []string{"Brep"}
	cfg.Revision.Store = "sqlite"
	cfg.Revision.DSN = filepath.Join(root, "revisions.db")
	cfg.Revision.Author = "Jo Tester"
	cfg.Logging.MaxSize = "10MB"

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(Path(root)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("LoadConfig() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadConfig_Partial(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DirName), 0755); err != nil {
		t.Fatal(err)
	}
	data := "version = 1\n\n[census]\ncategory = \"IfcBuildingElement\"\n"
	if err := os.WriteFile(Path(root), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Census.Category != "IfcBuildingElement" {
		t.Errorf("Census.Category = %q, want IfcBuildingElement", cfg.Census.Category)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %q, want default human", cfg.Output.Format)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("IFCAUDIT_OUTPUT_FORMAT", "yaml")
	t.Setenv("IFCAUDIT_REVISION_AUTHOR", "Env Author")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %q, want yaml", cfg.Output.Format)
	}
	if cfg.Revision.Author != "Env Author" {
		t.Errorf("Revision.Author = %q, want Env Author", cfg.Revision.Author)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DirName), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(root), []byte("version = = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(root); err == nil {
		t.Error("LoadConfig(malformed) should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadConfigFile(missing) should fail")
	}

	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[revision]\nalgorithm = \"md5\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.Revision.Algorithm != "md5" {
		t.Errorf("Revision.Algorithm = %q, want md5", cfg.Revision.Algorithm)
	}
}
