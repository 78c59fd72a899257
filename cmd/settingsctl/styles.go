package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/handiism/settings-manager/internal/check"
	"github.com/handiism/settings-manager/internal/model"
	"github.com/handiism/settings-manager/internal/query"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))
)

// renderSection draws one section as a Parameter | Value | Default | Auto
// table. Advanced parameters are skipped unless showAdvanced is set.
func renderSection(name string, section *model.Section, showAdvanced bool) string {
	var rows [][]string
	hidden := 0
	for _, paramName := range section.Names() {
		p, ok := section.Parameter(paramName)
		if !ok {
			continue
		}
		if p.Advanced() && !showAdvanced {
			hidden++
			continue
		}
		rows = append(rows, parameterRow(paramName, p))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Parameter", "Value", "Default", "Auto").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	if hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d advanced parameter(s) hidden, use --advanced", hidden)))
		b.WriteString("\n")
	}
	return b.String()
}

func parameterRow(name string, p *model.Parameter) []string {
	k := p.Type()
	value := "-"
	if v, ok := p.Value(); ok {
		value = formatValue(k, v)
	}
	def := "-"
	if v, ok := p.Default(); ok {
		def = formatValue(k, v)
	}

	auto := ""
	if enabled, supported := p.Auto(); supported {
		auto = "off"
		if enabled {
			auto = "on"
			value = dimStyle.Render(value)
		}
	}
	if !k.Valid() {
		name += " " + warningStyle.Render("(unknown type "+string(k)+")")
	}
	return []string{name, value, def, auto}
}

// formatValue renders a parameter value for display. Colours get a swatch.
func formatValue(k model.Kind, v any) string {
	if k == model.KindColor {
		if s, ok := v.(string); ok {
			if hex, err := model.NormalizeColor(s); err == nil {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■") + " " + hex
			}
		}
	}
	return plainValue(v)
}

// plainValue renders a value for scripts: strings unquoted, everything else
// as JSON would spell it.
func plainValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		s := fmt.Sprint(t)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case []any, map[string]any:
		return query.Format(v)
	}
	return fmt.Sprint(v)
}

func progressLine(event check.ProgressEvent) string {
	switch event.Level {
	case check.LevelError:
		return errorStyle.Render("✗ " + event.Message)
	case check.LevelWarning:
		return warningStyle.Render("! " + event.Message)
	case check.LevelSuccess:
		return successStyle.Render("✓ " + event.Message)
	case check.LevelInfo:
		return infoStyle.Render("• " + event.Message)
	default:
		return dimStyle.Render("  " + event.Message)
	}
}
