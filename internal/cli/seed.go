package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Network — описание сети метро в YAML.
//
//	stations: [강남역, 역삼역]
//	lines:
//	  - name: 2호선
//	    color: bg-green-600
//	    stations: [강남역, 역삼역, 선릉역]
//	    distances: [10, 7]
type Network struct {
	Stations []string      `yaml:"stations"`
	Lines    []NetworkLine `yaml:"lines"`
}

// NetworkLine — линия: станции в порядке маршрута и расстояния между соседними.
type NetworkLine struct {
	Name      string   `yaml:"name"`
	Color     string   `yaml:"color"`
	Stations  []string `yaml:"stations"`
	Distances []int    `yaml:"distances"`
}

// ParseNetwork разбирает и проверяет YAML описание сети.
func ParseNetwork(data []byte) (*Network, error) {
	var n Network
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse network: %w", err)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// LoadNetwork читает описание сети из файла.
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseNetwork(data)
}

// Validate проверяет форму описания до обращения к API.
func (n *Network) Validate() error {
	var errs []error
	lineNames := make(map[string]bool)

	for i, l := range n.Lines {
		name := strings.TrimSpace(l.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("lines[%d]: name is required", i))
		case lineNames[name]:
			errs = append(errs, fmt.Errorf("lines[%d]: duplicate line %q", i, name))
		}
		lineNames[name] = true

		if len(l.Stations) < 2 {
			errs = append(errs, fmt.Errorf("line %q: at least two stations required", name))
			continue
		}
		if len(l.Distances) != len(l.Stations)-1 {
			errs = append(errs, fmt.Errorf("line %q: %d stations need %d distances, got %d",
				name, len(l.Stations), len(l.Stations)-1, len(l.Distances)))
		}
		for j, d := range l.Distances {
			if d <= 0 {
				errs = append(errs, fmt.Errorf("line %q: distances[%d] must be positive", name, j))
			}
		}

		seen := make(map[string]bool, len(l.Stations))
		for j, s := range l.Stations {
			s = strings.TrimSpace(s)
			switch {
			case s == "":
				errs = append(errs, fmt.Errorf("line %q: stations[%d] is empty", name, j))
			case seen[s]:
				errs = append(errs, fmt.Errorf("line %q: station %q appears twice", name, s))
			}
			seen[s] = true
		}
	}

	return errors.Join(errs...)
}

// AllStations — станции из секции stations и из маршрутов, без повторов,
// в порядке первого упоминания.
func (n *Network) AllStations() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, s := range n.Stations {
		add(s)
	}
	for _, l := range n.Lines {
		for _, s := range l.Stations {
			add(s)
		}
	}
	return out
}

// SeedResult — что создано при загрузке.
type SeedResult struct {
	StationsCreated  int
	StationsExisting int
	LinesCreated     int
	LinesSkipped     []string
}

// Seed создаёт в API станции и линии из n. Существующие станции
// переиспользуются, линии с занятым именем пропускаются.
func Seed(client *Client, n *Network) (*SeedResult, error) {
	res := &SeedResult{}

	existing, err := client.ListStations()
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	ids := make(map[string]string, len(existing))
	for _, s := range existing {
		ids[s.Name] = s.ID
	}

	for _, name := range n.AllStations() {
		if _, ok := ids[name]; ok {
			res.StationsExisting++
			continue
		}
		st, err := client.CreateStation(name)
		if err != nil {
			return res, fmt.Errorf("create station %q: %w", name, err)
		}
		ids[name] = st.ID
		res.StationsCreated++
	}

	for _, l := range n.Lines {
		stations := make([]string, len(l.Stations))
		for i, s := range l.Stations {
			stations[i] = ids[strings.TrimSpace(s)]
		}

		line, err := client.CreateLine(CreateLineRequest{
			Name:          l.Name,
			Color:         l.Color,
			UpStationID:   stations[0],
			DownStationID: stations[1],
			Distance:      l.Distances[0],
		})
		if IsConflict(err) {
			res.LinesSkipped = append(res.LinesSkipped, l.Name)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("create line %q: %w", l.Name, err)
		}

		for i := 2; i < len(stations); i++ {
			if _, err := client.AddSection(line.ID, SectionRequest{
				UpStationID:   stations[i-1],
				DownStationID: stations[i],
				Distance:      l.Distances[i-1],
			}); err != nil {
				return res, fmt.Errorf("line %q: add section %s → %s: %w",
					l.Name, l.Stations[i-1], l.Stations[i], err)
			}
		}
		res.LinesCreated++
	}

	return res, nil
}

// NewSeedCmd — subway seed FILE.
func NewSeedCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed FILE",
		Short: "Create stations and lines described in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := LoadNetwork(args[0])
			if err != nil {
				return err
			}

			out := outputFn()
			if dryRun {
				out.Success(fmt.Sprintf("%s is valid: %d stations, %d lines",
					args[0], len(network.AllStations()), len(network.Lines)))
				return nil
			}

			res, err := Seed(clientFn(), network)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Stations: %d created, %d existing. Lines: %d created, %d skipped.",
				res.StationsCreated, res.StationsExisting, res.LinesCreated, len(res.LinesSkipped)))
			if len(res.LinesSkipped) > 0 {
				out.Success("Skipped (name taken): " + strings.Join(res.LinesSkipped, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only validate the file")
	return cmd
}
