package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestInitConfigReadsNestedKeysFromEnv(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "genscope.yaml")
	if err := os.WriteFile(cfg, []byte("http:\n  retries: 3\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prev := cfgFile
	cfgFile = cfg
	t.Cleanup(func() {
		cfgFile = prev
		viper.Reset()
	})

	t.Setenv("GENSCOPE_HTTP_RETRIES", "7")
	t.Setenv("GENSCOPE_HTTP_TIMEOUT", "5s")
	t.Setenv("GENSCOPE_IMMUNEFI_BASEURL", "http://127.0.0.1:9")

	initConfig()

	if got := viper.GetInt("http.retries"); got != 7 {
		t.Fatalf("http.retries: want 7, got %d", got)
	}
	if got := viper.GetDuration("http.timeout"); got != 5*time.Second {
		t.Fatalf("http.timeout: want 5s, got %s", got)
	}
	if got := viper.GetString("immunefi.baseurl"); got != "http://127.0.0.1:9" {
		t.Fatalf("immunefi.baseurl: want http://127.0.0.1:9, got %q", got)
	}
}
