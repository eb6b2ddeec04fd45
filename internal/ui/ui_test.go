package ui

import (
	"bytes"
	"errors"
	"maps"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vietdv277/lambda-cli/internal/config"
	"github.com/vietdv277/lambda-cli/pkg/provider"
	pkgtypes "github.com/vietdv277/lambda-cli/pkg/types"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf)

	log.Debugf("hidden %d", 1)
	log.Infof("shown")
	log.Warnf("careful")
	log.Errorf("broken")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug printed at info level: %q", out)
	}
	for _, want := range []string{"shown", "[WARNING]: careful", "[ERROR]: broken"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "[INFO]") {
		t.Fatalf("info lines must not be prefixed: %q", out)
	}

	buf.Reset()
	log.SetLevel(LevelDebug)
	log.Debugf("now %s", "visible")
	if !strings.Contains(buf.String(), "[DEBUG]: now visible") {
		t.Fatalf("debug output = %q", buf.String())
	}
}

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		verbose bool
		quiet   int
		want    Level
	}{
		{false, 0, LevelInfo},
		{false, 1, LevelWarning},
		{false, 2, LevelError},
		{false, 5, LevelError},
		{true, 0, LevelDebug},
		{true, 2, LevelDebug},
	}
	for _, tt := range tests {
		if got := LevelFromFlags(tt.verbose, tt.quiet); got != tt.want {
			t.Errorf("LevelFromFlags(%v, %d) = %s, want %s", tt.verbose, tt.quiet, got, tt.want)
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want bool
	}{
		{"yes", runes("y"), true},
		{"upper yes", runes("Y"), true},
		{"no", runes("n"), false},
		{"enter defaults to no", tea.KeyMsg{Type: tea.KeyEnter}, false},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, false},
		{"ctrl-c", tea.KeyMsg{Type: tea.KeyCtrlC}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := NewConfirmModel("Delete?").Update(tt.key)
			if cmd == nil {
				t.Fatal("expected the prompt to quit")
			}
			if got := m.(ConfirmModel).Confirmed(); got != tt.want {
				t.Fatalf("confirmed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfirmModel_IgnoresOtherKeys(t *testing.T) {
	m, cmd := NewConfirmModel("Delete?").Update(runes("x"))
	if cmd != nil || m.(ConfirmModel).Confirmed() {
		t.Fatal("unrelated keys must not answer the prompt")
	}
	if !strings.Contains(m.View(), "[y/N]") {
		t.Fatalf("view = %q", m.View())
	}
}

func TestProfileModel_FilterAndSelect(t *testing.T) {
	profiles := []pkgtypes.AWSProfile{
		{Name: "default", Region: "us-east-1"},
		{Name: "dev", Region: "eu-west-1"},
		{Name: "prod", Region: "eu-central-1"},
	}

	var m tea.Model = NewProfileModel(profiles, "default")
	m, _ = m.Update(runes("pro"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected enter to quit")
	}
	selected := m.(ProfileModel).Selected()
	if selected == nil || selected.Name != "prod" {
		t.Fatalf("selected = %+v", selected)
	}
}

func TestProfileModel_Cancel(t *testing.T) {
	var m tea.Model = NewProfileModel([]pkgtypes.AWSProfile{{Name: "default"}}, "")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(ProfileModel).Selected() != nil {
		t.Fatal("escape must not select")
	}
}

func TestSelectionCancelledIsAbort(t *testing.T) {
	if !errors.Is(ErrSelectionCancelled, provider.ErrAborted) {
		t.Fatal("cancelling the picker must read as an abort")
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("日本", 6); got != "日本  " {
		t.Fatalf("padRight wide = %q", got)
	}
	if got := padRight("abcdefgh", 5); got != "ab..." {
		t.Fatalf("padRight truncate = %q", got)
	}
}

func TestMask(t *testing.T) {
	if got := Mask("wJalrXUtnFEMIK7MDENG"); got != "****************DENG" {
		t.Fatalf("Mask = %q", got)
	}
	if got := Mask("abc"); got != "***" {
		t.Fatalf("Mask short = %q", got)
	}
}

func TestPrintConfigTable(t *testing.T) {
	entries := map[string]config.Entry{
		"/home/me/proj": {ProfileName: "dev", AWSSecretAccessKey: "supersecret"},
	}

	var buf bytes.Buffer
	PrintConfigTable(&buf, maps.All(entries))

	out := buf.String()
	if !strings.Contains(out, "/home/me/proj") || !strings.Contains(out, "dev") {
		t.Fatalf("table missing entry: %q", out)
	}
	if strings.Contains(out, "supersecret") {
		t.Fatalf("secret printed in clear: %q", out)
	}
	if !strings.Contains(out, "1 entries") {
		t.Fatalf("missing count: %q", out)
	}
}

func TestPrintConfigTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintConfigTable(&buf, maps.All(map[string]config.Entry{}))
	if !strings.Contains(buf.String(), "No configuration entries") {
		t.Fatalf("output = %q", buf.String())
	}
}
