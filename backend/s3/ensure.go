package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cmstack/s3vfs"
)

// Validate surfaces configuration problems as findings. It runs at
// construction/config time, separate from Ensure's store probes.
func (c Config) Validate() []vfs.Finding {
	var findings []vfs.Finding
	if c.Bucket == "" {
		findings = append(findings, vfs.Finding{
			Severity: vfs.SeverityError,
			Title:    "Bucket missing",
			Message:  "A bucket name is required.",
		})
	}
	if c.Endpoint == "" && c.Region == "" {
		findings = append(findings, vfs.Finding{
			Severity: vfs.SeverityWarning,
			Title:    "Region missing",
			Message:  "A region is required when no custom endpoint is configured.",
		})
	}
	return findings
}

// Ensure verifies bucket existence and read permission. All failures are
// converted to findings, never returned as errors, since this runs during
// configuration validation where partial diagnostics beat aborting.
func (fs *FileSystem) Ensure(ctx context.Context) []vfs.Finding {
	client, err := fs.Client()
	if err != nil {
		return []vfs.Finding{{
			Severity: vfs.SeverityError,
			Title:    "Client configuration invalid",
			Message:  err.Error(),
		}}
	}

	bucket := fs.config.Bucket
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return []vfs.Finding{{
			Severity: vfs.SeverityError,
			Title:    "Bucket does not exist",
			Message:  fmt.Sprintf("The bucket %q does not exist or is not reachable.", bucket),
		}}
	}

	// permission probe; results are discarded
	if _, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return []vfs.Finding{{
			Severity: vfs.SeverityError,
			Title:    "Bucket is not listable",
			Message:  fmt.Sprintf("Listing the bucket %q failed: %v.", bucket, err),
		}}
	}

	return nil
}
