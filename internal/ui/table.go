package ui

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/lambda-cli/internal/config"
	pkgtypes "github.com/vietdv277/lambda-cli/pkg/types"
)

// column describes one table column; cells are padded to the widest value
type column struct {
	header string
	style  lipgloss.Style
	max    int // 0 means unlimited
}

// renderTable draws a rounded box table. Each row must have one cell per column.
func renderTable(columns []column, rows [][]string) string {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c.header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, c := range columns {
		if c.max > 0 && widths[i] > c.max {
			widths[i] = c.max
		}
	}

	var sb strings.Builder
	border := func(left, mid, right string) {
		sb.WriteString(BorderStyle.Render(left))
		for i, w := range widths {
			sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
			if i < len(widths)-1 {
				sb.WriteString(BorderStyle.Render(mid))
			}
		}
		sb.WriteString(BorderStyle.Render(right))
		sb.WriteString("\n")
	}

	border(TopLeft, TopT, TopRight)

	sb.WriteString(BorderStyle.Render(Vertical))
	for i, c := range columns {
		sb.WriteString(HeaderStyle.Render(" " + padRight(c.header, widths[i]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	border(LeftT, Cross, RightT)

	for _, row := range rows {
		sb.WriteString(BorderStyle.Render(Vertical))
		for i, cell := range row {
			sb.WriteString(columns[i].style.Render(" " + padRight(cell, widths[i]) + " "))
			sb.WriteString(BorderStyle.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	border(BottomLeft, BottomT, BottomRight)

	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintConfigTable prints stored directory entries. Secrets are masked.
func PrintConfigTable(w io.Writer, entries iter.Seq2[string, config.Entry]) {
	columns := []column{
		{header: "Path", style: PathStyle, max: 60},
		{header: "Profile", style: AccentStyle},
		{header: "Region", style: ValueStyle},
		{header: "Access Key", style: MutedStyle},
		{header: "Secret Key", style: MutedStyle},
		{header: "Session Token", style: MutedStyle},
	}

	var rows [][]string
	for path, e := range entries {
		rows = append(rows, []string{
			path,
			orDash(e.ProfileName),
			orDash(e.RegionName),
			orDash(e.AWSAccessKeyID),
			orDash(Mask(e.AWSSecretAccessKey)),
			orDash(Mask(e.AWSSessionToken)),
		})
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, MutedStyle.Render("No configuration entries"))
		return
	}

	fmt.Fprint(w, renderTable(columns, rows))
	fmt.Fprintf(w, "  %d entries\n", len(rows))
}

// PrintEntry prints one entry as aligned key/value lines
func PrintEntry(w io.Writer, path string, e config.Entry) {
	fmt.Fprintln(w, PathStyle.Render(path))
	for _, kv := range e.Fields() {
		value := kv[1]
		if kv[0] == "aws_secret_access_key" || kv[0] == "aws_session_token" {
			value = Mask(value)
		}
		fmt.Fprintf(w, "  %s %s\n", HeaderStyle.Render(padRight(kv[0], 22)), ValueStyle.Render(value))
	}
}

// PrintProfileTable prints AWS profiles, marking the active one
func PrintProfileTable(w io.Writer, profiles []pkgtypes.AWSProfile, activeProfile string) {
	columns := []column{
		{header: "", style: InfoStyle},
		{header: "Name", style: AccentStyle},
		{header: "Region", style: MutedStyle},
		{header: "Source", style: MutedStyle},
		{header: "SSO", style: MutedStyle},
	}

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		marker := ""
		if p.Name == activeProfile {
			marker = "●"
		}
		sso := ""
		if p.SSO {
			sso = "yes"
		}
		rows = append(rows, []string{marker, p.Name, orDash(p.Region), p.Source, sso})
	}

	fmt.Fprint(w, renderTable(columns, rows))
	fmt.Fprintf(w, "  %d profiles\n", len(profiles))
}
