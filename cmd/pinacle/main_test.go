package main

import (
	"testing"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "doctor", "token", "bootstrap", "version"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected root command to include %s", name)
		}
	}
}

func TestTokenSubcommands(t *testing.T) {
	token := newTokenCmd()
	for _, name := range []string{"set", "show", "clear"} {
		found := false
		for _, cmd := range token.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected token command to include %s", name)
		}
	}
}
