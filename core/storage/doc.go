// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so features can be
// unit tested with the testify mock in core/storage/mocks. Both AWS S3 and
// self-hosted MinIO are supported.
//
// The catalog keeps three prefixes in its bucket:
//   - thumbnails/: uploaded video list thumbnails
//   - imports/: catalog batches consumed by the import command
//   - exports/: catalog snapshots written by the export command
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
