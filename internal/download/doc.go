// Package download saves Pexels photos to disk.
//
// # Manager
//
// The Manager coordinates the download of a result set:
//
//  1. Compute each photo's path from the configured templates
//  2. Skip photos that already exist on disk
//  3. Download photos concurrently
//  4. Optionally resize or convert to JPEG before saving
//
// # Basic Usage
//
//	manager := download.NewManager(settings.ToDownloadConfig(), nil, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Download(ctx, controller.Snapshot().Results); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Config.MaxConcurrent limits how many photos are downloaded in parallel.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Failed downloads are reported and counted but not retried.
package download
