package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore keeps objects in a MongoDB GridFS bucket; the object path is the GridFS filename.
type GridFSStore struct {
	db         *mongo.Database
	bucketName string
}

func NewGridFSStore(db *mongo.Database, bucketName string) *GridFSStore {
	return &GridFSStore{db: db, bucketName: bucketName}
}

// bucket returns a per-call bucket so request deadlines never leak between callers
func (s *GridFSStore) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.SetReadDeadline(deadline)
		_ = b.SetWriteDeadline(deadline)
	}
	return b, nil
}

func (s *GridFSStore) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (*ObjectInfo, error) {
	clean, err := CleanPath(objectPath)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = DefaultContentType
	}
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, err
	}

	cr := &countingReader{r: r}
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	id, err := b.UploadFromStream(clean, cr, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	// Drop older revisions so a path maps to exactly one object.
	older, err := s.files(ctx, b, bson.M{"filename": clean, "_id": bson.M{"$ne": id}})
	if err != nil {
		return nil, err
	}
	for _, f := range older {
		if err := b.Delete(f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, fmt.Errorf("failed to delete old revision: %w", err)
		}
	}

	info := &ObjectInfo{Path: clean, Size: cr.n, ContentType: contentType}
	if files, err := s.files(ctx, b, bson.M{"_id": id}); err == nil && len(files) == 1 {
		info.UpdatedAt = files[0].UploadDate
	}
	return info, nil
}

func (s *GridFSStore) Open(ctx context.Context, objectPath string) (io.ReadCloser, *ObjectInfo, error) {
	clean, err := CleanPath(objectPath)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, nil, err
	}
	ds, err := b.OpenDownloadStreamByName(clean)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open object: %w", err)
	}
	f := ds.GetFile()
	return ds, fileInfo(f), nil
}

func (s *GridFSStore) Delete(ctx context.Context, objectPath string) error {
	clean, err := CleanPath(objectPath)
	if err != nil {
		return err
	}
	b, err := s.bucket(ctx)
	if err != nil {
		return err
	}
	files, err := s.files(ctx, b, bson.M{"filename": clean})
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := b.Delete(f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("failed to delete object: %w", err)
		}
	}
	return nil
}

func (s *GridFSStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"filename": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	files, err := s.files(ctx, b, filter)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]ObjectInfo, len(files))
	order := make([]string, 0, len(files))
	for i := range files {
		info := fileInfo(&files[i])
		prev, seen := latest[info.Path]
		if !seen {
			order = append(order, info.Path)
		}
		if !seen || info.UpdatedAt.After(prev.UpdatedAt) {
			latest[info.Path] = *info
		}
	}
	out := make([]ObjectInfo, 0, len(order))
	for _, p := range order {
		out = append(out, latest[p])
	}
	return out, nil
}

func (s *GridFSStore) files(ctx context.Context, b *gridfs.Bucket, filter interface{}) ([]gridfs.File, error) {
	cursor, err := b.Find(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bucket: %w", err)
	}
	defer cursor.Close(ctx)
	var files []gridfs.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode bucket files: %w", err)
	}
	return files, nil
}

func fileInfo(f *gridfs.File) *ObjectInfo {
	info := &ObjectInfo{
		Path:        f.Name,
		Size:        f.Length,
		ContentType: DefaultContentType,
		UpdatedAt:   f.UploadDate,
	}
	if len(f.Metadata) > 0 {
		if ct, ok := f.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			info.ContentType = ct
		}
	}
	return info
}
