package ui

import (
	"testing"
	"time"
)

func TestGetTheme_UnknownFallsBackToDusk(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Dusk" {
		t.Fatalf("GetTheme(nope) = %q, want Dusk", got)
	}
	if got := GetTheme("Daylight").Name; got != "Daylight" {
		t.Fatalf("GetTheme(Daylight) = %q, want Daylight", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames = %v, want 2 themes", names)
	}
	if got := NextTheme("Dusk"); got != "Daylight" {
		t.Fatalf("NextTheme(Dusk) = %q, want Daylight", got)
	}
	if got := NextTheme("Daylight"); got != "Dusk" {
		t.Fatalf("NextTheme(Daylight) = %q, want Dusk", got)
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestStyles_LogLevelFallsBackToText(t *testing.T) {
	styles := GetTheme("Dusk").Styles()
	if got := styles.LogLevel("info").GetForeground(); got != styles.Text.GetForeground() {
		t.Fatalf("LogLevel(info) foreground = %v, want text %v", got, styles.Text.GetForeground())
	}
	if got := styles.LogLevel("error").GetForeground(); got != styles.Danger.GetForeground() {
		t.Fatalf("LogLevel(error) foreground = %v, want danger %v", got, styles.Danger.GetForeground())
	}
}

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{-5 * time.Second, "0s"},
		{12 * time.Second, "12s"},
		{100 * time.Second, "1m 40s"},
		{2 * time.Minute, "2m"},
		{2*time.Hour + 3*time.Minute, "2h 3m"},
	}
	for _, tc := range cases {
		if got := humanizeDuration(tc.in); got != tc.want {
			t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  hello world  ", 8); got != "hello..." {
		t.Fatalf("truncate = %q, want %q", got, "hello...")
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q, want short", got)
	}
}
