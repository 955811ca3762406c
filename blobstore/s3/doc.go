// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "meshes/"
//	    o.Region = "us-east-1"
//	})
//
//	tri, err := delaunay.Load(ctx, store, "palette.dlny")
//
// # Features
//
//   - Range reads
//   - Multipart streaming uploads with CRC32C integrity checks
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
