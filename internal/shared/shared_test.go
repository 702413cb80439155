package shared

import "testing"

func TestFormatDurationMS(t *testing.T) {
	tc := []struct {
		name string
		ms   int
		want string
	}{
		{name: "zero", ms: 0, want: "0:00"},
		{name: "negative", ms: -100, want: "0:00"},
		{name: "under a minute", ms: 45000, want: "0:45"},
		{name: "three minutes five seconds", ms: 185000, want: "3:05"},
		{name: "truncates sub-second remainder", ms: 185999, want: "3:05"},
		{name: "over ten minutes", ms: 754000, want: "12:34"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDurationMS(tt.ms)
			if got != tt.want {
				t.Errorf("FormatDurationMS(%d) = %v, want %v", tt.ms, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("GenerateID returned empty string")
	}
	if a == b {
		t.Errorf("GenerateID returned duplicate ids: %s", a)
	}
	if len(a) != 36 {
		t.Errorf("GenerateID returned unexpected length %d for %s", len(a), a)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Resolution.Profile != "strict" {
		t.Errorf("default profile = %q, want strict", cfg.Resolution.Profile)
	}
	if cfg.Batch.Concurrency != 5 {
		t.Errorf("default concurrency = %d, want 5", cfg.Batch.Concurrency)
	}
	if cfg.Batch.BackoffFactor != 2.0 {
		t.Errorf("default backoff factor = %v, want 2.0", cfg.Batch.BackoffFactor)
	}
	if cfg.Server.Port != 8765 {
		t.Errorf("default port = %d, want 8765", cfg.Server.Port)
	}
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState returned error: %v", err)
	}
	b, _ := GenerateState()

	if a == "" || a == b {
		t.Errorf("GenerateState returned weak tokens: %q, %q", a, b)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := t.TempDir() + "/config.toml"

	cfg := DefaultConfig()
	cfg.Credentials.Spotify.ClientID = "abc123"
	cfg.Credentials.Spotify.AccessToken = "tok"
	cfg.Batch.Concurrency = 9

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if loaded.Credentials.Spotify.ClientID != "abc123" {
		t.Errorf("client id = %q, want abc123", loaded.Credentials.Spotify.ClientID)
	}
	if loaded.Credentials.Spotify.AccessToken != "tok" {
		t.Errorf("access token = %q, want tok", loaded.Credentials.Spotify.AccessToken)
	}
	if loaded.Batch.Concurrency != 9 {
		t.Errorf("concurrency = %d, want 9", loaded.Batch.Concurrency)
	}
}

func TestSpotifyConfigToken(t *testing.T) {
	var cfg SpotifyConfig

	if cfg.Token() != nil {
		t.Error("expected nil token when nothing is stored")
	}
	if err := cfg.Update(nil); err == nil {
		t.Error("expected error updating from a nil token")
	}

	cfg.AccessToken = "tok"
	cfg.RefreshToken = "ref"

	token := cfg.Token()
	if token == nil || token.AccessToken != "tok" || token.RefreshToken != "ref" {
		t.Errorf("unexpected token: %+v", token)
	}
}

func TestOpenBrowserUnsupportedPlatform(t *testing.T) {
	orig := osName
	osName = func() string { return "plan9" }
	defer func() { osName = orig }()

	if err := OpenBrowser("https://example.com"); err == nil {
		t.Fatal("OpenBrowser succeeded on a platform with no launcher")
	}
}
