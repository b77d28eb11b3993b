package domain

// ThemeConfig holds the dashboard appearance settings.
type ThemeConfig struct {
	PrimaryColor string `json:"primaryColor"`
	SidebarColor string `json:"sidebarColor"`
	BgColor      string `json:"bgColor"`
	FontFamily   string `json:"fontFamily"`
}

// DefaultTheme is applied when nothing has been saved.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		PrimaryColor: "#33d3b1",
		SidebarColor: "#0e1d33",
		BgColor:      "#f2f4f7",
		FontFamily:   "Inter",
	}
}
