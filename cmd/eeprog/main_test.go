package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"omibyte.io/eeprog/eeprom"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProgramVerifyDump(t *testing.T) {
	dir := t.TempDir()
	rom := filepath.Join(dir, "rom.bin")
	program := filepath.Join(dir, "program.bin")
	if err := os.WriteFile(program, []byte{0x00, 0xEA, 0x00, 0xEF}, 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sim := []string{"--sim", "--sim-image", rom, "--sim-write-time", "200us", "--target", "nano-direct"}

	if _, err := run(t, append([]string{"program", program, "--format", "bin", "--start", "0x10"}, sim...)...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := run(t, append([]string{"verify", program, "--format", "bin", "--start", "0x10"}, sim...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "verified 4 bytes at 0x0010-0x0013") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = run(t, append([]string{"dump", "--start", "0x0E", "--length", "8", "--format", "hex"}, sim...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "0x000E: FF FF 00 EA 00 EF FF FF") {
		t.Errorf("unexpected dump %q", out)
	}

	out, err = run(t, append([]string{"read", "0x11"}, sim...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "0x0011: 0xEA" {
		t.Errorf("unexpected output %q", out)
	}

	// 0x20 is past the five wired address lines
	if _, err := run(t, append([]string{"write", "0x20", "0x00"}, sim...)...); err == nil {
		t.Errorf("expected out of range write to fail")
	}

	_, err = run(t, append([]string{"verify", program, "--format", "bin", "--start", "0x00"}, sim...)...)
	if err == nil {
		t.Fatalf("expected verify mismatch")
	}
	var mismatch *eeprom.MismatchError
	if !errors.As(err, &mismatch) || mismatch.Address != 0x0000 {
		t.Errorf("unexpected error %v", err)
	}
}

func TestTargets(t *testing.T) {
	out, err := run(t, "targets", "--targets", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"bluepill", "nano-direct", "nano-shift"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing %s in %q", name, out)
		}
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected uint16
		ok       bool
	}{
		{"0x7FFF", 0x7FFF, true},
		{"32", 32, true},
		{"0b101", 5, true},
		{"0x10000", 0, false},
		{"zz", 0, false},
	}
	for _, tc := range tests {
		got, err := parseAddress(tc.input)
		if (err == nil) != tc.ok || got != tc.expected {
			t.Errorf("%q: got 0x%04X, %v", tc.input, got, err)
		}
	}
}
