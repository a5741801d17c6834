package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// cobraRoot собирает корневую команду subway.
type cobraRoot struct {
	url      string
	jsonMode bool
}

// NewRootCmd — корневая команда subway, вывод в stdout/stderr.
func NewRootCmd(version string) *cobra.Command {
	root := &cobraRoot{}
	cmd := root.build(os.Stdout, os.Stderr)
	cmd.Version = version
	return cmd
}

func (r *cobraRoot) build(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "subway",
		Short:         "Subway network CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	defaultURL := r.url
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	cmd.PersistentFlags().StringVar(&r.url, "api-url", defaultURL, "API server URL")
	cmd.PersistentFlags().BoolVar(&r.jsonMode, "json", false, "Output in JSON format")

	clientFn := func() *Client { return NewClient(r.url) }
	outputFn := func() *Output { return NewOutputTo(r.jsonMode, stdout, stderr) }

	cmd.AddCommand(
		NewStationCmd(clientFn, outputFn),
		NewLineCmd(clientFn, outputFn),
		NewSeedCmd(clientFn, outputFn),
	)
	return cmd
}
