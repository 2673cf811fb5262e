package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pavelanni/introto/internal/catalog"
)

func TestPrintCourses(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	var buf bytes.Buffer
	if err := printCourses(&buf, cat.List()); err != nil {
		t.Fatalf("printCourses: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(cat.List())+1 {
		t.Fatalf("expected header plus %d rows, got %d lines", len(cat.List()), len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Data Science & Machine Learning") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestRootCommandFlags(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"addr", "catalog", "db", "lang", "login-rate", "login-burst", "log-level"} {
		if root.Flags().Lookup(name) == nil {
			t.Errorf("root command missing flag --%s", name)
		}
	}
	if _, _, err := root.Find([]string{"courses"}); err != nil {
		t.Errorf("courses subcommand: %v", err)
	}
}
