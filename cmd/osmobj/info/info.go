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

package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	humanize "github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"m4o.io/osmobj"
	"m4o.io/osmobj/cmd/osmobj/cli"
	"m4o.io/osmobj/model"
)

var out io.Writer = os.Stdout

type summary struct {
	osmobj.Counts

	BoundingBox   *model.BoundingBox `json:"bbox,omitempty"`
	ClosedWays    int64              `json:"closed_ways"`
	MultiPolygons int64              `json:"multipolygons"`
	WayLength     float64            `json:"way_length_km"`
	Complete      int64              `json:"complete"`
	Partial       int64              `json:"partial"`
	Failed        int64              `json:"failed"`
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
	flags.Uint16P("cpu", "c", uint16(runtime.GOMAXPROCS(-1)), "number of CPUs to use")
	flags.BoolP("progress", "p", false, "show a progress bar while reading a single input")
}

var infoCmd = &cobra.Command{
	Use:   "info <entity document>...",
	Short: "Print information about entity documents",
	Long:  "Print counts, bounds and resolution statistics of entity documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		ncpu, err := flags.GetUint16("cpu")
		if err != nil {
			return err
		}

		progress, err := flags.GetBool("progress")
		if err != nil {
			return err
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			return err
		}

		info, err := runInfo(cmd.Context(), args, ncpu, progress)
		if err != nil {
			return err
		}

		if jsonfmt {
			return renderJSON(info)
		}

		renderTxt(info)

		return nil
	},
}

func runInfo(ctx context.Context, inputs []string, ncpu uint16, progress bool) (*summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := cli.Load(ctx, inputs, ncpu, progress)
	if err != nil {
		return nil, err
	}

	entities := store.Entities()

	results, err := osmobj.NewResolver(store, osmobj.WithNCpus(ncpu)).ResolveAll(ctx, entities)
	if err != nil {
		return nil, err
	}

	info := &summary{Counts: store.Counts()}

	if bbox := store.Bounds(); !bbox.IsEmpty() {
		info.BoundingBox = bbox
	}

	for i, e := range entities {
		switch v := e.(type) {
		case *model.Way:
			if v.IsClosed() {
				info.ClosedWays++
			}

			info.WayLength += v.Length()
		case *model.Relation:
			if v.IsMultiPolygon() && len(v.MultiPolygon()) > 0 {
				info.MultiPolygons++
			}
		}

		switch results[i].Status {
		case osmobj.Complete:
			info.Complete++
		case osmobj.Partial:
			info.Partial++
		case osmobj.Failed:
			info.Failed++
		}
	}

	return info, nil
}

func renderJSON(info *summary) error {
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(b))

	return err
}

func renderTxt(info *summary) {
	if info.BoundingBox != nil {
		fmt.Fprintf(out, "BoundingBox: %s\n", info.BoundingBox)
	} else {
		fmt.Fprintf(out, "BoundingBox: none\n")
	}

	fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(int64(info.Nodes)))
	fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(int64(info.Ways)))
	fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(int64(info.Relations)))
	fmt.Fprintf(out, "ClosedWays: %s\n", humanize.Comma(info.ClosedWays))
	fmt.Fprintf(out, "MultiPolygons: %s\n", humanize.Comma(info.MultiPolygons))
	fmt.Fprintf(out, "WayLength: %s km\n", humanize.CommafWithDigits(info.WayLength, 3))
	fmt.Fprintf(out, "Resolved: %s complete, %s partial, %s failed\n",
		humanize.Comma(info.Complete), humanize.Comma(info.Partial), humanize.Comma(info.Failed))
}
