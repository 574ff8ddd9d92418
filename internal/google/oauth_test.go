package google

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid work", "work", false},
		{"valid with hyphen", "work-email", false},
		{"valid with underscore", "personal_email", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "work.email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAccountName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetTokenFilePath(t *testing.T) {
	tests := []struct {
		name    string
		account string
		want    string
	}{
		{"default account", "default", "google-default.token"},
		{"work account", "work", "google-work.token"},
		{"personal account", "personal", "google-personal.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getTokenFilePath(tt.account)
			if filepath.Base(got) != tt.want {
				t.Errorf("getTokenFilePath() = %v, want base %v", got, tt.want)
			}
			if !strings.Contains(got, cacheDirName) {
				t.Errorf("getTokenFilePath() = %v, want path under %q", got, cacheDirName)
			}
		})
	}
}

func TestHasTokenForAccount(t *testing.T) {
	if HasTokenForAccount("invalid account") {
		t.Error("HasTokenForAccount() should return false for invalid account name")
	}

	if HasTokenForAccount("") {
		t.Error("HasTokenForAccount() should return false for empty account name")
	}
}

func TestMigrateDefaultToken(t *testing.T) {
	cacheDir := filepath.Join(userCacheDir(), cacheDirName)

	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		t.Fatal(err)
	}

	oldTokenFile := filepath.Join(cacheDir, "google.token")
	newTokenFile := filepath.Join(cacheDir, "google-default.token")
	defer func() {
		os.Remove(oldTokenFile)
		os.Remove(newTokenFile)
	}()

	tokenData := []byte("test_access_token test_refresh_token")
	if err := os.WriteFile(oldTokenFile, tokenData, 0600); err != nil {
		t.Fatal(err)
	}

	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("MigrateDefaultToken() error = %v", err)
	}

	if _, err := os.Stat(newTokenFile); os.IsNotExist(err) {
		t.Error("New token file should exist after migration")
	}

	if _, err := os.Stat(oldTokenFile); !os.IsNotExist(err) {
		t.Error("Old token file should be removed after migration")
	}

	newData, err := os.ReadFile(newTokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(newData) != string(tokenData) {
		t.Errorf("Token data should be preserved during migration, got %s, want %s", string(newData), string(tokenData))
	}

	// Running it again must be a no-op
	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("Second MigrateDefaultToken() error = %v", err)
	}
}

func TestGetAuthenticationErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		account string
	}{
		{"default account", "default"},
		{"work account", "work"},
		{"personal account", "personal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := GetAuthenticationErrorMessage(tt.account)
			if msg == "" {
				t.Error("GetAuthenticationErrorMessage() should return non-empty message")
			}
			if !strings.Contains(msg, tt.account) {
				t.Errorf("GetAuthenticationErrorMessage() should mention account %s", tt.account)
			}
			if !strings.Contains(msg, "OAuth") {
				t.Error("GetAuthenticationErrorMessage() should mention OAuth")
			}
		})
	}
}

func TestDefaultAccountFunctions(t *testing.T) {
	defaultResult := HasTokenForAccount("default")
	legacyResult := HasToken()
	if defaultResult != legacyResult {
		t.Error("HasToken() should return same result as HasTokenForAccount('default')")
	}
}
