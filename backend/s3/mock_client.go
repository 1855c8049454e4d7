package s3

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cmstack/s3vfs/utils"
)

// MockObject is one stored object held by MockClient.
type MockObject struct {
	Body         []byte
	ContentType  string
	LastModified time.Time
}

// MockClient is an in-memory mock implementation of Client used by package
// tests and by hosts testing against the adapter without a store.
type MockClient struct {
	BucketMissing bool
	Objects       map[string]MockObject

	HeadBucketError  error
	HeadObjectError  error
	GetObjectError   error
	PutObjectError   error
	DeleteError      error
	ListObjectsError error
}

// NewMockClient returns a MockClient with an empty object map.
func NewMockClient() *MockClient {
	return &MockClient{Objects: make(map[string]MockObject)}
}

// HeadBucket reports bucket existence per the BucketMissing flag.
func (m *MockClient) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.HeadBucketError != nil {
		return nil, m.HeadBucketError
	}
	if m.BucketMissing {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

// HeadObject returns the stored object's metadata, or types.NotFound.
func (m *MockClient) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if m.HeadObjectError != nil {
		return nil, m.HeadObjectError
	}
	obj, ok := m.Objects[*in.Key]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(obj.Body))),
		ContentType:   aws.String(obj.ContentType),
		LastModified:  aws.Time(obj.LastModified),
		ETag:          aws.String(`"mock-etag"`),
	}, nil
}

// GetObject returns the stored object's body, or types.NoSuchKey.
func (m *MockClient) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.GetObjectError != nil {
		return nil, m.GetObjectError
	}
	obj, ok := m.Objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.Body)),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		ContentType:   aws.String(obj.ContentType),
	}, nil
}

// PutObject stores the body in the object map.
func (m *MockClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.PutObjectError != nil {
		return nil, m.PutObjectError
	}
	var body []byte
	if in.Body != nil {
		var err error
		body, err = io.ReadAll(in.Body)
		if err != nil {
			return nil, err
		}
	}
	obj := MockObject{Body: body, LastModified: time.Now()}
	if in.ContentType != nil {
		obj.ContentType = *in.ContentType
	}
	if m.Objects == nil {
		m.Objects = make(map[string]MockObject)
	}
	m.Objects[*in.Key] = obj
	return &s3.PutObjectOutput{ETag: aws.String(`"mock-etag"`)}, nil
}

// DeleteObject removes the key from the object map.
func (m *MockClient) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.DeleteError != nil {
		return nil, m.DeleteError
	}
	delete(m.Objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

// ListObjectsV2 lists stored keys matching the requested prefix, honoring
// MaxKeys. Single page; the mock never truncates.
func (m *MockClient) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsError != nil {
		return nil, m.ListObjectsError
	}
	prefix := ""
	if in.Prefix != nil {
		prefix = *in.Prefix
	}

	var keys []string
	for key := range m.Objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if in.MaxKeys != nil && int(*in.MaxKeys) < len(keys) {
		keys = keys[:*in.MaxKeys]
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, key := range keys {
		obj := m.Objects[key]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(obj.Body))),
			LastModified: aws.Time(obj.LastModified),
		})
	}
	return out, nil
}

// CreateMultipartUpload returns a fixed upload id. The mock satisfies the
// full upload surface but keeps no multipart state.
func (m *MockClient) CreateMultipartUpload(_ context.Context, in *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return &s3.CreateMultipartUploadOutput{
		Bucket:   in.Bucket,
		Key:      in.Key,
		UploadId: aws.String("mock-upload-id"),
	}, nil
}

// UploadPart accepts the part and returns a fixed ETag.
func (m *MockClient) UploadPart(_ context.Context, in *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	if in.Body != nil {
		if _, err := io.Copy(io.Discard, in.Body); err != nil {
			return nil, err
		}
	}
	return &s3.UploadPartOutput{ETag: aws.String(`"mock-etag"`)}, nil
}

// CompleteMultipartUpload acknowledges the upload.
func (m *MockClient) CompleteMultipartUpload(_ context.Context, in *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return &s3.CompleteMultipartUploadOutput{
		Bucket: in.Bucket,
		Key:    in.Key,
		ETag:   aws.String(`"mock-etag"`),
	}, nil
}

// AbortMultipartUpload acknowledges the abort.
func (m *MockClient) AbortMultipartUpload(_ context.Context, _ *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

var _ Client = (*MockClient)(nil)

// MockPresigner is a mock implementation of Presigner that records the last
// signing request and returns deterministic form values.
type MockPresigner struct {
	Err            error
	LastInput      *s3.PutObjectInput
	LastConditions []any
	LastExpires    time.Duration
}

// PresignPostObject records the request and returns canned form values.
func (p *MockPresigner) PresignPostObject(_ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
	if p.Err != nil {
		return nil, p.Err
	}

	var opts s3.PresignPostOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	p.LastInput = in
	p.LastConditions = opts.Conditions
	p.LastExpires = opts.Expires

	return &s3.PresignedPostRequest{
		URL: "https://" + *in.Bucket + ".s3.amazonaws.com/",
		Values: map[string]string{
			"key":              *in.Key,
			"policy":           "bW9jay1wb2xpY3k=",
			"X-Amz-Algorithm":  "AWS4-HMAC-SHA256",
			"X-Amz-Credential": "mock/20250101/us-east-1/s3/aws4_request",
			"X-Amz-Date":       "20250101T000000Z",
			"X-Amz-Signature":  "6d6f636b",
		},
	}, nil
}

// seed stores content at the key for a virtual path, applying the prefix the
// way the adapter would.
func (m *MockClient) seed(cfg Config, path, contentType string, body []byte) {
	if m.Objects == nil {
		m.Objects = make(map[string]MockObject)
	}
	key := utils.ApplyPrefix(utils.RemoveLeadingSlash(utils.StripScheme(path)), cfg.Prefix)
	m.Objects[key] = MockObject{Body: body, ContentType: contentType, LastModified: time.Now()}
}
