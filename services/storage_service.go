package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// FirebaseStorage backs ObjectStore with the project's Cloud Storage bucket.
type FirebaseStorage struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewFirebaseStorage initializes the bucket client. Credentials resolve the
// same way the FCM client does: FCM_SERVICE_ACCOUNT_JSON (Base64) first, local
// key file as fallback. The bucket name comes from FIREBASE_STORAGE_BUCKET.
func NewFirebaseStorage(ctx context.Context, localFilePath string) (*FirebaseStorage, error) {
	bucketName := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if bucketName == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET environment variable is not set")
	}

	var opt option.ClientOption
	encodedCreds := os.Getenv("FCM_SERVICE_ACCOUNT_JSON")
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %v", err)
		}
		opt = option.WithCredentialsJSON(decoded)
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("local firebase file not found: %s, and FCM_SERVICE_ACCOUNT_JSON environment variable is not set", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting storage client: %v", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default bucket: %v", err)
	}

	log.Printf("Firebase Storage initialized with bucket %s", bucketName)
	return &FirebaseStorage{bucket: bucket, bucketName: bucketName}, nil
}

func (f *FirebaseStorage) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	w := f.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("writing object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing object %s: %w", path, err)
	}
	return nil
}

func (f *FirebaseStorage) PublicURL(path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", f.bucketName, path)
}

// PhotoUpload is one attachment flowing through the upload pipeline.
type PhotoUpload struct {
	Name        string
	ContentType string
	Data        io.Reader
}

// UploadAll stores photos one at a time in input order and returns their
// public URLs in the same order. The first failure aborts the loop; objects
// already uploaded stay behind, that storage cost is accepted rather than
// reconciled. The progress callback gets round(i/n*100) after item i, so the
// reported percentage only ever grows.
func UploadAll(ctx context.Context, store ObjectStore, prefix string, photos []PhotoUpload, progress func(pct int)) ([]string, error) {
	urls := make([]string, 0, len(photos))
	for i, p := range photos {
		path := objectPath(prefix, p.Name)
		if err := store.Upload(ctx, path, p.ContentType, p.Data); err != nil {
			return nil, fmt.Errorf("uploading photo %d/%d: %w", i+1, len(photos), err)
		}
		urls = append(urls, store.PublicURL(path))
		if progress != nil {
			progress(int(math.Round(float64(i+1) / float64(len(photos)) * 100)))
		}
	}
	return urls, nil
}

// objectPath builds a collision-resistant storage path from the owner prefix,
// the upload instant and a random suffix.
func objectPath(prefix, filename string) string {
	ext := "jpg"
	if idx := strings.LastIndex(filename, "."); idx != -1 && idx < len(filename)-1 {
		ext = filename[idx+1:]
	}
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("%s_%d_%s.%s", prefix, time.Now().UnixMilli(), suffix, ext)
}
