package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points every XDG directory at a temp dir and clears the
// environment variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{EnvOpenAIKey, EnvOpenAIModel, EnvOpenAIURL, EnvStore, EnvSQLitePath,
		EnvMongoURI, EnvCache, EnvRedisAddr, EnvServerAddr, "TOPICMAP_REDIS_DB"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.OpenAI.MaxTokens != 3000 {
		t.Errorf("openai defaults = %+v", cfg.OpenAI)
	}
	if cfg.Store.Driver != StoreSQLite {
		t.Errorf("store driver = %q, want sqlite", cfg.Store.Driver)
	}
	if want := filepath.Join(dir, "data", AppName, AppName+".db"); cfg.Store.Path != want {
		t.Errorf("store path = %q, want %q", cfg.Store.Path, want)
	}
	if want := filepath.Join(dir, "cache", AppName); cfg.Cache.Dir != want {
		t.Errorf("cache dir = %q, want %q", cfg.Cache.Dir, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, `
[openai]
model = "gpt-4o-mini"
max_tokens = 1500

[store]
driver = "memory"

[cache]
driver = "redis"
redis_addr = "cache:6379"

[layout]
iterations = 120
seed = 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" || cfg.OpenAI.MaxTokens != 1500 {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("unset keys should keep defaults, base_url = %q", cfg.OpenAI.BaseURL)
	}
	if cfg.Store.Driver != StoreMemory || cfg.Store.Path != "" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Cache.Driver != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Layout.Iterations != 120 || cfg.Layout.Seed != 7 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
}

func TestLoadDefaultPathFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", AppName, "config.toml"), "[server]\naddr = \":9999\"\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("server addr = %q, want :9999", cfg.Server.Addr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.toml")
	writeFile(t, path, "[openai]\nmodel = \"from-file\"\n")

	t.Setenv(EnvOpenAIKey, "sk-test")
	t.Setenv(EnvOpenAIModel, "from-env")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")
	t.Setenv("TOPICMAP_REDIS_DB", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "from-env" {
		t.Errorf("env should override file, model = %q", cfg.OpenAI.Model)
	}
	if cfg.Store.Driver != StoreMongo || cfg.Store.URI != "mongodb://db:27017" {
		t.Errorf("mongo uri should select the mongo driver, store = %+v", cfg.Store)
	}
	if cfg.Cache.RedisDB != 3 {
		t.Errorf("redis db = %d, want 3", cfg.Cache.RedisDB)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"UnknownKey", "[openai]\nmodle = \"x\"\n", "unknown keys"},
		{"BadSyntax", "[openai\n", "load config"},
		{"UnknownStore", "[store]\ndriver = \"postgres\"\n", "store.driver"},
		{"MongoWithoutURI", "[store]\ndriver = \"mongo\"\n", "store.uri"},
		{"UnknownCache", "[cache]\ndriver = \"disk\"\n", "cache.driver"},
		{"RedisWithoutAddr", "[cache]\ndriver = \"redis\"\n", "cache.redis_addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "c.toml")
			writeFile(t, path, tt.content)

			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/custom-cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	dir, _ = CacheDir()
	if dir != filepath.Join(home, ".cache", AppName) {
		t.Errorf("CacheDir() without XDG = %q", dir)
	}
}
