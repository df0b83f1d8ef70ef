package main

import (
	"testing"
)

func TestRootCommand_Flags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"port", "config", "prefs", "fps", "log-level"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("flag --%s not registered", name)
		}
	}
	if got := cmd.Flags().Lookup("log-level").DefValue; got != "info" {
		t.Fatalf("--log-level default = %q, want info", got)
	}
}

func TestRootCommand_RejectsBadPort(t *testing.T) {
	for _, port := range []string{"70000", "65500", "65436", "-1"} {
		cmd := newRootCommand()
		cmd.SetArgs([]string{"--port", port})
		if err := cmd.Execute(); err == nil {
			t.Fatalf("Execute with --port %s succeeded, want error", port)
		}
	}
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute with positional argument succeeded, want error")
	}
}
