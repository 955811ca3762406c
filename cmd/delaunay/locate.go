package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/delaunay"
	"github.com/hupe1980/delaunay/locate"
)

func newLocateCmd(g *globalFlags) *cobra.Command {
	var (
		bruteforce bool
		tolerance  float64
		epsilon    float64
	)

	cmd := &cobra.Command{
		Use:   "locate <name> [queries.csv]",
		Short: "Locate query points in a saved mesh",
		Long: `locate reads query points as CSV from a file or stdin and writes one row
per query: the simplex index (-1 when not found), its d+1 vertex indices
and the matching barycentric weights.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			queries, err := readPoints(in)
			if err != nil {
				return fmt.Errorf("read queries: %w", err)
			}

			opts, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if bruteforce {
				opts = append(opts, delaunay.WithBruteforce())
			}
			if epsilon > 0 {
				opts = append(opts, delaunay.WithEpsilon(epsilon))
			}

			store, err := openStore(ctx, g.store)
			if err != nil {
				return err
			}

			tri, err := delaunay.Load(ctx, store, args[0], opts...)
			if err != nil {
				return err
			}

			var locs []locate.Location
			if tolerance > 0 {
				locs = make([]locate.Location, len(queries))
				for i, q := range queries {
					locs[i], _ = tri.LocateTolerant(q, tolerance)
				}
			} else if locs, err = tri.LocateBatch(ctx, queries); err != nil {
				return err
			}

			return writeLocations(cmd.OutOrStdout(), tri.Dim(), locs)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&bruteforce, "bruteforce", false, "scan every simplex instead of walking")
	flags.Float64Var(&tolerance, "tolerance", 0, "retry misses with a growing tolerance up to this value")
	flags.Float64Var(&epsilon, "epsilon", 0, "barycentric tolerance (0 = default)")

	return cmd
}

func writeLocations(w io.Writer, dim int, locs []locate.Location) error {
	cw := csv.NewWriter(w)
	rec := make([]string, 0, 1+2*(dim+1))

	for _, loc := range locs {
		rec = writeInts(rec[:0], []int{loc.Simplex})
		if loc.Found() {
			rec = writeInts(rec, loc.Vertices)
			rec = writeFloats(rec, loc.Weights)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
