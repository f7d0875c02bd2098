// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"log"
	"os"

	"github.com/poiesic/geosuggest/config"
	"github.com/poiesic/geosuggest/source"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "geosuggest",
		Usage: "Country and capital autocomplete",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "source-url",
				Usage: "URL of the countries dataset",
				Value: source.DefaultURL,
			},
			&cli.StringFlag{
				Name:  "source-file",
				Usage: "Read the countries dataset from a local file instead of the URL",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before a query is searched",
				Value: config.DefaultDebounce,
			},
			&cli.DurationFlag{
				Name:  "fetch-timeout",
				Usage: "Timeout for fetching the dataset (0 for none)",
			},
			&cli.IntFlag{
				Name:  "pool-size",
				Usage: "Workers used by the search command (0 picks from CPU count)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address, e.g. :9090",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Print suggestions for each query argument",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
			},
			{
				Name:   "interactive",
				Usage:  "Read queries line by line; :N selects suggestion N, :q quits",
				Action: interactiveCommand,
			},
		},
	}
}
