package theme

func registerBuiltins() {
	for _, t := range []Theme{
		Default(),
		{
			Name:       "gruvbox",
			Background: "#282828",
			Foreground: "#ebdbb2",
			Dim:        "#928374",
			Accent:     "#fe8019",
			OK:         "#b8bb26",
			Warn:       "#fabd2f",
			Crit:       "#fb4934",
		},
		{
			Name:       "nord",
			Background: "#2e3440",
			Foreground: "#eceff4",
			Dim:        "#4c566a",
			Accent:     "#88c0d0",
			OK:         "#a3be8c",
			Warn:       "#ebcb8b",
			Crit:       "#bf616a",
		},
		{
			Name:       "catppuccin",
			Background: "#1e1e2e",
			Foreground: "#cdd6f4",
			Dim:        "#6c7086",
			Accent:     "#cba6f7",
			OK:         "#a6e3a1",
			Warn:       "#f9e2af",
			Crit:       "#f38ba8",
		},
		{
			Name:       "dracula",
			Background: "#282a36",
			Foreground: "#f8f8f2",
			Dim:        "#6272a4",
			Accent:     "#bd93f9",
			OK:         "#50fa7b",
			Warn:       "#f1fa8c",
			Crit:       "#ff5555",
		},
		{
			Name:       "tokyo-night",
			Background: "#1a1b26",
			Foreground: "#c0caf5",
			Dim:        "#565f89",
			Accent:     "#7aa2f7",
			OK:         "#9ece6a",
			Warn:       "#e0af68",
			Crit:       "#f7768e",
		},
	} {
		if err := Register(t); err != nil {
			panic(err)
		}
	}
}

// Default is black and white with conventional traffic-light thresholds.
func Default() Theme {
	return Theme{
		Name:       "default",
		Background: "#000000",
		Foreground: "#ffffff",
		Dim:        "#6b6b6b",
		Accent:     "#7c3aed",
		OK:         "#4ec970",
		Warn:       "#e5c07b",
		Crit:       "#e06c75",
	}
}
