// Package storage wraps the MinIO client used to archive sync pass reports.
//
// Only the operations the archiver needs are exposed through Client, which keeps
// the testify mock in core/storage/mocks small. The same client talks to AWS S3
// and to self-hosted MinIO.
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
