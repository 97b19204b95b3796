package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/mhoward/mailscope/internal/config"
)

func TestToFilter(t *testing.T) {
	defaults := config.DefaultsConfig{Folder: "INBOX", Limit: 100}

	t.Run("maps all fields", func(t *testing.T) {
		flags := filterFlags{
			Folder:  "Work",
			From:    "alice@example.com",
			To:      "bob@example.com",
			Cc:      "carol@example.com",
			Subject: "invoice",
			Since:   "2024-01-01",
			Before:  "2024-06-01",
			Limit:   25,
		}

		filter, folder, err := flags.toFilter(defaults)
		if err != nil {
			t.Fatalf("toFilter() error = %v", err)
		}
		if folder != "Work" {
			t.Errorf("folder = %q, want Work", folder)
		}
		if filter.From != "alice@example.com" || filter.Subject != "invoice" {
			t.Errorf("filter = %+v", filter)
		}
		if filter.Limit != 25 {
			t.Errorf("Limit = %d, want 25", filter.Limit)
		}
		wantSince := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if !filter.Since.Equal(wantSince) {
			t.Errorf("Since = %v, want %v", filter.Since, wantSince)
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		filter, folder, err := filterFlags{From: "a@b.com"}.toFilter(defaults)
		if err != nil {
			t.Fatalf("toFilter() error = %v", err)
		}
		if folder != "INBOX" {
			t.Errorf("folder = %q, want INBOX", folder)
		}
		if filter.Limit != 100 {
			t.Errorf("Limit = %d, want the default 100", filter.Limit)
		}
	})

	t.Run("falls back to INBOX with empty defaults", func(t *testing.T) {
		_, folder, err := filterFlags{From: "a@b.com"}.toFilter(config.DefaultsConfig{})
		if err != nil {
			t.Fatalf("toFilter() error = %v", err)
		}
		if folder != "INBOX" {
			t.Errorf("folder = %q, want INBOX", folder)
		}
	})

	t.Run("rejects malformed since", func(t *testing.T) {
		_, _, err := filterFlags{Since: "01/02/2024"}.toFilter(defaults)
		if err == nil {
			t.Fatal("expected an error for a malformed date")
		}
		if !strings.Contains(err.Error(), "YYYY-MM-DD") {
			t.Errorf("error = %q, want the expected format named", err)
		}
	})

	t.Run("rejects malformed before", func(t *testing.T) {
		if _, _, err := (filterFlags{Before: "yesterday"}).toFilter(defaults); err == nil {
			t.Fatal("expected an error for a malformed date")
		}
	})
}

func TestParseDay(t *testing.T) {
	got, err := parseDay("2024-12-31")
	if err != nil {
		t.Fatalf("parseDay() error = %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.December || got.Day() != 31 {
		t.Errorf("parseDay() = %v", got)
	}

	if _, err := parseDay("2024-13-01"); err == nil {
		t.Error("expected an error for an invalid month")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"rfc5322", "Mon, 02 Jan 2006 15:04:05 -0700", "2006-01-02 15:04"},
		{"malformed short", "not a date", "not a date"},
		{"malformed long clipped", "definitely not any kind of date value", "definitely not any k"},
		{"unknown placeholder", "Unknown", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDate(tt.input); got != tt.want {
				t.Errorf("formatDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}
