package config

// Preset returns the widget list for a named preset.
// If the name is not recognized, the "default" preset is returned.
func Preset(name string) []WidgetConfig {
	switch name {
	case "minimal":
		return minimalPreset()
	case "laptop":
		return laptopPreset()
	default:
		return defaultPreset()
	}
}

// PresetNames lists the known presets.
func PresetNames() []string {
	return []string{"default", "laptop", "minimal"}
}

// minimalPreset is a clock pushed to the right edge.
//
//	[spacer:flex] [clock]
func minimalPreset() []WidgetConfig {
	return []WidgetConfig{
		{Type: "spacer", Flex: true},
		{Type: "clock"},
	}
}

// defaultPreset shows machine load on the left, clock and tray on the right.
//
//	[cpu] [memory] [disk:/] [spacer:flex] [clock] [systray]
func defaultPreset() []WidgetConfig {
	return []WidgetConfig{
		{Type: "cpu"},
		{Type: "memory"},
		{Type: "disk", Path: "/"},
		{Type: "spacer", Flex: true},
		{Type: "clock"},
		{Type: "systray"},
	}
}

// laptopPreset puts the focused window's title in the middle and adds a
// brightness popup and a battery gauge with low-charge notifications.
//
//	[cpu] [memory] [window:flex] [brightness] [battery] [clock] [systray]
func laptopPreset() []WidgetConfig {
	return []WidgetConfig{
		{Type: "cpu"},
		{Type: "memory"},
		{Type: "window", MaxChars: 80},
		{Type: "brightness"},
		{Type: "battery", Low: 0.15, Notify: true},
		{Type: "clock"},
		{Type: "systray"},
	}
}
