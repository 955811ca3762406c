// Command delaunay builds Delaunay triangulations from CSV point files,
// stores them as snapshots and answers point-location queries.
//
//	delaunay build palette.csv --store file:///var/lib/meshes --name palette
//	delaunay locate palette queries.csv --store file:///var/lib/meshes
//	delaunay inspect palette --store s3://bucket/meshes
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
