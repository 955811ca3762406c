// Package delaunay builds D-dimensional Delaunay triangulations and answers
// point-location queries on them.
//
// A triangulation is computed with the lifting map: points are normalized,
// lifted onto the paraboloid z = |x|², and the lower facets of the lifted
// convex hull are projected back. Each resulting simplex carries its
// neighbor across every facet, which lets queries walk through the mesh.
//
// # Quick Start
//
//	ctx := context.Background()
//	tri, err := delaunay.Build(ctx, points)
//	if err != nil {
//	    return err
//	}
//
//	loc, ok := tri.Locate([]float64{0.25, 0.5, 0.1})
//	if ok {
//	    fmt.Println(loc.Simplex, loc.Vertices, loc.Weights)
//	}
//
// By default only the vertices of the input's convex hull are triangulated,
// which is what palette-based recolouring needs. WithAllPoints triangulates
// every input point instead.
//
// # Queries
//
// Locate walks from a seed simplex; LocateBruteforce scans the mesh; both
// return the same answer, including for points on shared facets where the
// lowest simplex index wins. Use a Cursor per goroutine for coherent query
// streams and LocateBatch for large batches:
//
//	cur := tri.NewCursor()
//	for _, p := range pixels {
//	    loc, _ := cur.Locate(p)
//	}
//
//	locs, err := tri.LocateBatch(ctx, pixels)
//
// # Persistence
//
//	store := blobstore.NewLocalStore("./meshes")
//	err := tri.Save(ctx, store, "palette.dlny")
//	tri, err = delaunay.Load(ctx, store, "palette.dlny")
//
// Snapshots use codec.Default (binary, zstd compressed) unless WithCodec is
// given. Stores for S3 and MinIO live in blobstore/s3 and blobstore/minio.
//
// # Observability
//
// WithLogger and WithMetricsCollector attach structured logging and
// metrics; package promcollector exports the metrics to Prometheus.
//
// # Errors
//
// Build fails with InvalidCoordinateError, InsufficientPointsError,
// DegenerateInputError or DimensionMismatchError, each matching its
// sentinel via errors.Is. Queries never fail: a point outside the mesh is
// simply not found.
package delaunay
