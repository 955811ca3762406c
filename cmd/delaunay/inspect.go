package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/delaunay"
	"github.com/hupe1980/delaunay/mesh"
)

func newInspectCmd(g *globalFlags) *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Print a summary of a saved mesh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			store, err := openStore(ctx, g.store)
			if err != nil {
				return err
			}

			tri, err := delaunay.Load(ctx, store, args[0], opts...)
			if err != nil {
				return err
			}

			m := tri.Mesh()
			if validate {
				if err := m.Validate(); err != nil {
					return err
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "name\t%s\n", args[0])
			fmt.Fprintf(tw, "dimension\t%d\n", m.Dim())
			fmt.Fprintf(tw, "points\t%d\n", m.Points().Len())
			fmt.Fprintf(tw, "vertices\t%d\n", len(m.Vertices()))
			fmt.Fprintf(tw, "coplanar\t%d\n", len(m.Coplanar()))
			fmt.Fprintf(tw, "simplices\t%d\n", m.Len())
			fmt.Fprintf(tw, "degenerate\t%d\n", tri.Index().NumDegenerate())
			fmt.Fprintf(tw, "grid\t%d\n", tri.Index().GridResolution())
			if lo, hi, mean := starSizes(m); hi > 0 {
				fmt.Fprintf(tw, "star size\tmin %d, max %d, mean %.2f\n", lo, hi, mean)
			}

			lo, hi := m.Bounds()
			fmt.Fprintf(tw, "bounds\t%v - %v\n", lo, hi)
			if lift := m.Lift(); !lift.IsZero() {
				fmt.Fprintf(tw, "lift scale\t%g\n", lift.Scale)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "check mesh adjacency before printing")

	return cmd
}

// starSizes summarizes the number of simplices incident to each vertex.
func starSizes(m *mesh.Mesh) (lo, hi int, mean float64) {
	verts := m.Vertices()
	if len(verts) == 0 {
		return 0, 0, 0
	}

	lo = m.StarSize(verts[0])
	total := 0
	for _, v := range verts {
		n := m.StarSize(v)
		lo, hi = min(lo, n), max(hi, n)
		total += n
	}

	return lo, hi, float64(total) / float64(len(verts))
}
