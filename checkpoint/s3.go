package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/celestiaorg/hyperlane-metadata/types"
)

// s3API is the subset of the S3 client the store uses; narrowed for tests.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads a validator's checkpoints from an S3 bucket, the storage
// backend production validators announce.
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Store builds a store for an s3:// location using the ambient AWS
// credential chain. Hyperlane validator buckets are publicly readable, so
// anonymous credentials also work.
func NewS3Store(ctx context.Context, loc Location) (*S3Store, error) {
	if loc.Scheme != SchemeS3 {
		return nil, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "not an s3 location: %q", loc.Scheme)
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(loc.Region))
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidCheckpointStorage, err.Error())
	}
	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: loc.Bucket,
		prefix: loc.Prefix,
	}, nil
}

// NewS3StoreWithClient injects a prebuilt client; used by tests and by callers
// that manage credentials themselves.
func NewS3StoreWithClient(client s3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// getObject fetches a key, returning nil with no error when the key is absent.
func (s *S3Store) getObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3Store) Announcement(ctx context.Context) (types.Announcement, error) {
	bz, err := s.getObject(ctx, announcementKey)
	if err != nil {
		return types.Announcement{}, err
	}
	if bz == nil {
		return types.Announcement{}, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "bucket %s has no announcement", s.bucket)
	}
	var announcement types.Announcement
	if err := json.Unmarshal(bz, &announcement); err != nil {
		return types.Announcement{}, err
	}
	return announcement, nil
}

func (s *S3Store) LatestIndex(ctx context.Context) (int64, error) {
	bz, err := s.getObject(ctx, latestIndexKey)
	if err != nil {
		return -1, err
	}
	if bz == nil {
		return -1, nil
	}
	index, err := strconv.ParseInt(strings.TrimSpace(string(bz)), 10, 64)
	if err != nil {
		return -1, errorsmod.Wrapf(types.ErrInvalidCheckpointStorage, "malformed latest index: %s", err)
	}
	return index, nil
}

func (s *S3Store) Checkpoint(ctx context.Context, index uint32) (*types.SignedCheckpointWithMessageId, error) {
	bz, err := s.getObject(ctx, checkpointKey(index))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	var signed types.SignedCheckpointWithMessageId
	if err := json.Unmarshal(bz, &signed); err != nil {
		return nil, err
	}
	return &signed, nil
}

var _ Store = (*S3Store)(nil)
