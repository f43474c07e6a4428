package cli

import (
	"encoding/json"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/tidwall/pretty"

	"github.com/BeatGlow/panel"
)

func printJSONColored(logger *log.Logger, data any) {
	j, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		logger.Errorf("Error marshalling JSON: %v", err)
		return
	}

	jPretty := pretty.Color(j, nil)
	logger.Info(string(jPretty))
}

func printVersion(logger *log.Logger) {
	var (
		babyBlue = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		green    = lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	)
	logger.Infof("%v version %v", babyBlue.Render("panel"), green.Render(panel.Version))
}
