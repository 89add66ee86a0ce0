package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalPublisher implements Publisher over a bucket directory on local
// disk. Download URLs follow the hosted-bucket convention
// {base}/v0/b/{bucket}/o/{object}?alt=media&token={token} so clients
// resolve them the same way in every environment.
type LocalPublisher struct {
	Bucket     string
	Dir        string
	PublicBase string
}

func (p *LocalPublisher) Publish(_ context.Context, localPath, objectPath, contentType string) (string, error) {
	_ = contentType // kept in object metadata by real backends; nothing to record on disk

	dst := filepath.Join(p.Dir, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}
	if err := copyFile(localPath, dst); err != nil {
		return "", err
	}

	token := uuid.NewString()
	return fmt.Sprintf("%s/v0/b/%s/o/%s?alt=media&token=%s",
		p.PublicBase, p.Bucket, url.PathEscape(objectPath), token), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
