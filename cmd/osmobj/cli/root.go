// Copyright 2017 the original author or authors.
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

package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logLevel = slog.LevelInfo

// RootCmd is the osmobj command; subcommands register themselves with it.
var RootCmd = &cobra.Command{
	Use:   "osmobj",
	Short: "Resolve OpenStreetMap entities and write them as OSM, osmChange or GeoJSON",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
		slog.SetDefault(slog.New(handler))
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().Var(
		NewEnumValue(slog.LevelInfo, &logLevel, parseLevel, "level"),
		"log-level", "log level: debug, info, warn or error")
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))

	return level, err
}
