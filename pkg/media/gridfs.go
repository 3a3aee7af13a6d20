package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore implements ObjectStore on a MongoDB GridFS bucket. Objects are
// stored with the key as both file id and file name.
type GridFSStore struct {
	db     *mongo.Database
	bucket string
}

// NewGridFSStore uses the named bucket in db.
func NewGridFSStore(db *mongo.Database, bucket string) *GridFSStore {
	if bucket == "" {
		bucket = "media"
	}
	return &GridFSStore{db: db, bucket: bucket}
}

// open returns a bucket carrying ctx's deadline. Buckets hold their deadline
// as state, so each operation gets its own.
func (g *GridFSStore) open(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(g.db, options.GridFSBucket().SetName(g.bucket))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := b.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
		if err := b.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (g *GridFSStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	b, err := g.open(ctx)
	if err != nil {
		return err
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "contentType", Value: contentType},
		{Key: "size", Value: size},
	})
	if err := b.UploadFromStreamWithID(key, key, r, opts); err != nil {
		return fmt.Errorf("gridfs upload: %w", err)
	}
	return nil
}

func (g *GridFSStore) Open(ctx context.Context, key string) (*Object, error) {
	b, err := g.open(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := b.OpenDownloadStream(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("gridfs open: %w", err)
	}
	file := stream.GetFile()
	obj := &Object{ReadCloser: stream, Size: file.Length, ContentType: "application/octet-stream"}
	if file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			obj.ContentType = ct
		}
	}
	return obj, nil
}

func (g *GridFSStore) Delete(ctx context.Context, key string) error {
	b, err := g.open(ctx)
	if err != nil {
		return err
	}
	if err := b.Delete(key); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("gridfs delete: %w", err)
	}
	return nil
}
