package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stationHeaders = []string{"ID", "NAME", "CREATED"}

func stationRow(s StationResponse) []string {
	return []string{s.ID, s.Name, s.CreatedAt}
}

// NewStationCmd — группа команд subway station.
func NewStationCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "station",
		Short: "Manage stations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all stations",
			RunE: func(cmd *cobra.Command, args []string) error {
				stations, err := clientFn().ListStations()
				if err != nil {
					return err
				}

				rows := make([][]string, len(stations))
				for i, s := range stations {
					rows[i] = stationRow(s)
				}
				outputFn().Print(stationHeaders, rows, stations)
				return nil
			},
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a station",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := clientFn().CreateStation(args[0])
				if err != nil {
					return err
				}

				out := outputFn()
				out.Success(fmt.Sprintf("Station created: %s", st.ID))
				out.Print(stationHeaders, [][]string{stationRow(*st)}, st)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show ID",
			Short: "Show a station",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := clientFn().GetStation(args[0])
				if err != nil {
					return err
				}
				outputFn().Print(stationHeaders, [][]string{stationRow(*st)}, st)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename ID NAME",
			Short: "Rename a station",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := clientFn().RenameStation(args[0], args[1])
				if err != nil {
					return err
				}
				outputFn().Print(stationHeaders, [][]string{stationRow(*st)}, st)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a station that is not on any line",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := clientFn().DeleteStation(args[0]); err != nil {
					return err
				}
				outputFn().Success(fmt.Sprintf("Station deleted: %s", args[0]))
				return nil
			},
		},
	)

	return cmd
}
