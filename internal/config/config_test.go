package config

import (
	"os"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("MONGO_URI")
	os.Unsetenv("PORT")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI != "mongodb://127.0.0.1:27017/priestdb" {
		t.Fatalf("unexpected default Mongo URI: %q", cfg.MongoDB.URI)
	}
	if cfg.Server.Port != "5000" {
		t.Fatalf("unexpected default port: %q", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Fatalf("server must default to loopback, got %q", cfg.Server.Host)
	}
	if cfg.MongoDB.RetryInterval.Seconds() != 4 {
		t.Fatalf("unexpected retry interval: %s", cfg.MongoDB.RetryInterval)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://db.example:27017/registry")
	os.Setenv("MONGODB_DATABASE", "registry_test")
	os.Setenv("PORT", "6060")
	os.Setenv("UPLOAD_DIR", "/tmp/photos")
	defer func() {
		os.Unsetenv("MONGO_URI")
		os.Unsetenv("MONGODB_DATABASE")
		os.Unsetenv("PORT")
		os.Unsetenv("UPLOAD_DIR")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI != "mongodb://db.example:27017/registry" || cfg.MongoDB.Database != "registry_test" {
		t.Fatalf("env values not applied: %+v", cfg.MongoDB)
	}
	if cfg.Server.Port != "6060" || cfg.Uploads.Dir != "/tmp/photos" {
		t.Fatalf("env values not applied: %+v %+v", cfg.Server, cfg.Uploads)
	}
}
