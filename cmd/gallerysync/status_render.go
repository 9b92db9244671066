package main

import (
	"fmt"
	"strings"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const checkLabelWidth = 20

// renderStatusLine formats one check result as "  Label:   [OK] detail".
func renderStatusLine(label string, kind statusKind, detail string, colorize bool) string {
	badge := "[" + kind.label() + "]"
	if detail = strings.TrimSpace(detail); detail != "" {
		badge += " " + detail
	}
	line := fmt.Sprintf("  %-*s %s", checkLabelWidth, label+":", badge)
	if colorize {
		return kind.color() + line + ansiReset
	}
	return line
}

func (k statusKind) label() string {
	switch k {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (k statusKind) color() string {
	switch k {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		heading = ansiBlue + heading + ansiReset
	}
	return []string{heading}
}
