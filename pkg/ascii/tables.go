package ascii

import (
	"bytes"
	"fmt"

	"github.com/ethaan/craftbot/pkg/database"
	"github.com/ethaan/craftbot/pkg/settings"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// BuildUsageTable renders command usage counters as a monospace table.
func BuildUsageTable(rows []database.CommandUsage) string {
	buf := new(bytes.Buffer)

	table := tablewriter.NewWriter(buf)
	table.Options(
		tablewriter.WithRowAutoWrap(0),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)

	table.Header("Command", "Uses")

	var total int64
	for _, row := range rows {
		total += row.Uses
		table.Append([]string{
			row.Command,
			fmt.Sprintf("%d", row.Uses),
		})
	}

	table.Footer([]string{
		"Total",
		fmt.Sprintf("%d", total),
	})

	table.Render()
	return buf.String()
}

// BuildSettingsTable renders every known setting with its effective value
// for the given guild and channel next to the default.
func BuildSettingsTable(cache *settings.Cache, guildID, channelID string) string {
	buf := new(bytes.Buffer)

	table := tablewriter.NewWriter(buf)
	table.Options(
		tablewriter.WithRowAutoWrap(0),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)

	table.Header("Setting", "Value", "Default")

	for _, def := range settings.All() {
		value, err := def.EffectiveString(cache, guildID, channelID)
		if err != nil {
			value = "?"
		}
		table.Append([]string{
			def.Name(),
			value,
			def.DefaultString(),
		})
	}

	table.Render()
	return buf.String()
}
