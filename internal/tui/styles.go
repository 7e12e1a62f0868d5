package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4")).Background(lipgloss.Color("#5636d3")).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#12a454"))
	outcomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e83f5b"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	labelStyle    = lipgloss.NewStyle().Width(11).Foreground(lipgloss.Color("#a6adc8"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff872c")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	toastStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#f9e2af")).Padding(0, 1)
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#e83f5b")).Padding(1, 2)
	balanceStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(lipgloss.Color("#45475a")).MarginBottom(1)
	helpStyle     = mutedStyle.MarginTop(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#89b4fa"))
)
