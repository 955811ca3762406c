package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/delaunay"
)

func newBuildCmd(g *globalFlags) *cobra.Command {
	var (
		name      string
		allPoints bool
		dedup     bool
		hullEps   float64
	)

	cmd := &cobra.Command{
		Use:   "build <points.csv>",
		Short: "Triangulate a CSV point file and save the mesh",
		Long: `build reads one point per row (comma separated coordinates) and
triangulates the vertices of their convex hull, or every point with
--all-points. The mesh is saved to the store under --name, which defaults
to the input file name without extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			points, err := readPoints(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			opts, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if allPoints {
				opts = append(opts, delaunay.WithAllPoints())
			}
			if dedup {
				opts = append(opts, delaunay.WithDeduplicate())
			}
			if hullEps > 0 {
				opts = append(opts, delaunay.WithHullEpsilon(hullEps))
			}

			tri, err := delaunay.Build(ctx, points, opts...)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, g.store)
			if err != nil {
				return err
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			if err := tri.Save(ctx, store, name); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d points, %d vertices, %d simplices in %d dimensions\n",
				name, tri.Mesh().Points().Len(), len(tri.Vertices()), tri.Len(), tri.Dim())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "snapshot name")
	flags.BoolVar(&allPoints, "all-points", false, "triangulate every point, not only hull vertices")
	flags.BoolVar(&dedup, "dedup", false, "collapse identical points before triangulating")
	flags.Float64Var(&hullEps, "hull-epsilon", 0, "relative hull visibility tolerance (0 = default)")

	return cmd
}
