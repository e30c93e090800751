package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const version = "0.1.0"

func main() {
	var cfg config
	flag.StringVar(&cfg.DarkTheme, "dark-theme", "github-dark", "chroma style for dark mode")
	flag.StringVar(&cfg.LightTheme, "light-theme", "xcode", "chroma style for light mode")
	flag.BoolVar(&cfg.Light, "light", false, "start in light mode")
	flag.BoolVar(&cfg.Rainbow, "rainbow", false, "start with depth coloring on")
	flag.StringVar(&cfg.Palette, "palette", "", "override depth colors, comma-separated #RRGGBB list")
	flag.StringVar(&cfg.EditorCmd, "editor-cmd", "", "override editor command for o, supports {file} {line} {col} {target}")
	flag.BoolVar(&cfg.Debug, "debug", false, "write debug log to astnav.log")
	debounceMs := flag.Int("debounce-ms", 200, "highlight debounce in milliseconds")
	listThemes := flag.Bool("themes", false, "list available themes and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	cfg.Debounce = time.Duration(max(0, *debounceMs)) * time.Millisecond

	if *showVersion {
		fmt.Println("astnav " + version)
		return
	}
	if *listThemes {
		for _, name := range ListThemes() {
			fmt.Println(name)
		}
		return
	}

	var rainbow []string
	if strings.TrimSpace(cfg.Palette) != "" {
		for _, c := range strings.Split(cfg.Palette, ",") {
			rainbow = append(rainbow, strings.TrimSpace(c))
		}
	}

	theme, err := LoadTheme(cfg.DarkTheme, cfg.LightTheme, rainbow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid theme: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		f, err := tea.LogToFile("astnav.log", "astnav")
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	m := newModel(cfg, theme)

	if flag.NArg() > 0 {
		path, err := filepath.Abs(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve path: %v\n", err)
			os.Exit(1)
		}
		if err := m.loadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", flag.Arg(0), err)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "astnav failed: %v\n", err)
		os.Exit(1)
	}
}
