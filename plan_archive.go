package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// planArchiver stores a point-in-time copy of a plan document.
type planArchiver interface {
	Archive(ctx context.Context, userID, kind string, doc any) error
}

// s3PutObjectAPI is the one S3 call the archive makes.
type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3PlanArchive writes JSON snapshots to plans/<userID>/<kind>/<timestamp>.json.
type s3PlanArchive struct {
	client s3PutObjectAPI
	bucket string
	now    func() time.Time
}

// newS3PlanArchive loads the default AWS config (env, shared files, IMDS)
// for the given region.
func newS3PlanArchive(ctx context.Context, region, bucket string) (*s3PlanArchive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &s3PlanArchive{client: s3.NewFromConfig(cfg), bucket: bucket, now: time.Now}, nil
}

func planArchiveKey(userID, kind string, at time.Time) string {
	return fmt.Sprintf("plans/%s/%s/%s.json", userID, kind, at.UTC().Format(time.RFC3339))
}

func (a *s3PlanArchive) Archive(ctx context.Context, userID, kind string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s plan: %w", kind, err)
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(planArchiveKey(userID, kind, a.now())),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload %s plan: %w", kind, err)
	}
	return nil
}
