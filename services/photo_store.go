package services

import (
	"context"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// PhotoStore wraps the uploads bucket. Clients upload photos directly with
// signed credentials; the server only ever checks that a referenced blob
// exists.
type PhotoStore struct {
	*storage.BucketHandle
}

func NewPhotoStore(ctx context.Context, app *firebase.App, bucketName string) (*PhotoStore, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	bucketHandle, err := client.Bucket(bucketName)
	if err != nil {
		return nil, err
	}

	return &PhotoStore{
		bucketHandle,
	}, nil
}

func (ps *PhotoStore) Exists(ctx context.Context, blobName string) (bool, error) {
	if len(blobName) == 0 {
		return false, nil
	}
	handle := ps.Object(blobName)
	if _, err := handle.Attrs(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
