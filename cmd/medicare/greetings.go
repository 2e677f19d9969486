package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

var wellnessTips = [...]string{
	"Drink a glass of water. Your kidneys will thank you quietly.",
	"A ten minute walk after lunch does more than a second coffee.",
	"Keep your emergency contact up to date. Future you is counting on it.",
	"Bring your medication list to every appointment, even the routine ones.",
	"Seven hours of sleep is a treatment plan, not a luxury.",
	"Blood pressure checks take two minutes. Skipping them can cost years.",
	"Ask your doctor to repeat anything you did not understand. Twice is fine.",
	"Allergies belong in your record, not just in your memory.",
	"Stretch your neck. You have been staring at a terminal.",
	"Wash your hands like you are about to hold a newborn.",
	"Annual check-ups catch what symptoms have not announced yet.",
	"Your records are yours. Request a copy whenever you need one.",
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")).Bold(true)
	tipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	signStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printHelp(w io.Writer) {
	title := titleStyle.Render("M E D I C A R E")
	quote := tipStyle.Render(`"Seamless healthcare access with biometric authentication."`)

	cmdStyle := lipgloss.NewStyle().Bold(true)
	commands := []struct{ cmd, desc string }{
		{"medicare", "Open the portal (interactive TUI)"},
		{"medicare config", "Show the effective configuration"},
		{"medicare support", "Contact support in your browser"},
		{"medicare --version", "Show version"},
		{"medicare help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, quote)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), mutedStyle.Render(c.desc))
	}
	fmt.Fprintf(w, "\n  %s\n\n", mutedStyle.Render("Settings: ~/.medicare/config.toml"))
}

// printGoodbye prints a random wellness tip after the portal closes.
func printGoodbye(w io.Writer) {
	msg := wellnessTips[rand.Intn(len(wellnessTips))]
	fmt.Fprintf(w, "\n%s\n\n%s\n%s\n\n", titleStyle.Render("MEDICARE"), tipStyle.Render(msg), signStyle.Render("- your care team"))
}
