// Package blob is the object-storage boundary: the pipeline hands a
// finished archive to a Publisher and gets back a resolvable download
// URL. The real bucket lives outside this process.
package blob

import "context"

// Publisher uploads a local file to durable object storage.
type Publisher interface {
	// Publish stores localPath under objectPath with the given content
	// type and returns a stable download URL for the object.
	Publish(ctx context.Context, localPath, objectPath, contentType string) (string, error)
}
