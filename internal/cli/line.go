package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var lineHeaders = []string{"ID", "NAME", "COLOR", "CREATED"}

func lineRow(l LineResponse) []string {
	return []string{l.ID, l.Name, l.Color, l.CreatedAt}
}

// NewLineCmd — группа команд subway line.
func NewLineCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "line",
		Short: "Manage lines and their routes",
	}

	cmd.AddCommand(
		newLineListCmd(clientFn, outputFn),
		newLineCreateCmd(clientFn, outputFn),
		newLineShowCmd(clientFn, outputFn),
		newLineUpdateCmd(clientFn, outputFn),
		newLineDeleteCmd(clientFn, outputFn),
		newLineSectionsCmd(clientFn, outputFn),
		newLineAddSectionCmd(clientFn, outputFn),
		newLineRemoveStationCmd(clientFn, outputFn),
	)

	return cmd
}

func newLineListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := clientFn().ListLines()
			if err != nil {
				return err
			}

			rows := make([][]string, len(lines))
			for i, l := range lines {
				rows[i] = lineRow(l)
			}
			outputFn().Print(lineHeaders, rows, lines)
			return nil
		},
	}
}

func newLineCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var req CreateLineRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a line with its first section",
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := clientFn().CreateLine(req)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Line created: %s", line.ID))
			printRoute(out, line)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Line name (required)")
	cmd.Flags().StringVar(&req.Color, "color", "", "Line color")
	cmd.Flags().StringVar(&req.UpStationID, "up", "", "Up station ID (required)")
	cmd.Flags().StringVar(&req.DownStationID, "down", "", "Down station ID (required)")
	cmd.Flags().IntVar(&req.Distance, "distance", 0, "Distance between the stations (required)")
	for _, f := range []string{"name", "up", "down", "distance"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newLineShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a line with its stations in route order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := clientFn().GetLine(args[0])
			if err != nil {
				return err
			}
			printRoute(outputFn(), line)
			return nil
		},
	}
}

func newLineUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var req UpdateLineRequest

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change line name and color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()

			// Незаданные флаги сохраняют текущие значения.
			current, err := client.GetLine(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				req.Name = current.Name
			}
			if !cmd.Flags().Changed("color") {
				req.Color = current.Color
			}

			line, err := client.UpdateLine(args[0], req)
			if err != nil {
				return err
			}
			outputFn().Print(lineHeaders, [][]string{lineRow(*line)}, line)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "New line name")
	cmd.Flags().StringVar(&req.Color, "color", "", "New line color")

	return cmd
}

func newLineDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a line and its sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clientFn().DeleteLine(args[0]); err != nil {
				return err
			}
			outputFn().Success(fmt.Sprintf("Line deleted: %s", args[0]))
			return nil
		},
	}
}

func newLineSectionsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "sections ID",
		Short: "List line sections in route order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := clientFn().ListSections(args[0])
			if err != nil {
				return err
			}

			rows := make([][]string, len(sections))
			for i, s := range sections {
				rows[i] = []string{s.ID, s.UpStationID, s.DownStationID, strconv.Itoa(s.Distance)}
			}
			outputFn().Print([]string{"ID", "UP", "DOWN", "DISTANCE"}, rows, sections)
			return nil
		},
	}
}

func newLineAddSectionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var req SectionRequest

	cmd := &cobra.Command{
		Use:   "add-section ID",
		Short: "Attach a section to the start or end of the route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := clientFn().AddSection(args[0], req)
			if err != nil {
				return err
			}
			printRoute(outputFn(), line)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.UpStationID, "up", "", "Up station ID (required)")
	cmd.Flags().StringVar(&req.DownStationID, "down", "", "Down station ID (required)")
	cmd.Flags().IntVar(&req.Distance, "distance", 0, "Distance (required)")
	for _, f := range []string{"up", "down", "distance"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newLineRemoveStationCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-station LINE_ID STATION_ID",
		Short: "Remove a station from the line route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clientFn().RemoveLineStation(args[0], args[1]); err != nil {
				return err
			}
			outputFn().Success(fmt.Sprintf("Station %s removed from line %s", args[1], args[0]))
			return nil
		},
	}
}

// printRoute печатает станции линии по порядку.
func printRoute(out *Output, line *LineResponse) {
	names := make([]string, len(line.Stations))
	rows := make([][]string, len(line.Stations))
	for i, s := range line.Stations {
		names[i] = s.Name
		rows[i] = []string{strconv.Itoa(i + 1), s.ID, s.Name}
	}

	if !out.jsonMode {
		out.Success(fmt.Sprintf("%s (%s): %s, distance %d", line.Name, line.Color, strings.Join(names, " → "), line.Distance))
	}
	out.Print([]string{"#", "STATION ID", "NAME"}, rows, line)
}
