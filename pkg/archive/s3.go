// Package archive stores every polled status as a JSON object in S3.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"levguard/pkg/monitor"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
)

// NewClient initializes the S3 client from static credentials.
func NewClient(awsAccessKey, awsSecretKey, region string) (*s3.S3, error) {
	if awsAccessKey == "" || awsSecretKey == "" {
		return nil, fmt.Errorf("aws access key and secret key must be set")
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(awsAccessKey, awsSecretKey, ""),
		Region:      aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("fail to create session: %w", err)
	}
	return s3.New(sess), nil
}

type S3Archive struct {
	client s3iface.S3API
	bucket string
	prefix string
	logger *log.Entry
}

func NewS3Archive(client s3iface.S3API, bucket string, prefix string) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: log.WithFields(log.Fields{"component": "archive", "bucket": bucket}),
	}
}

// OnStatus uploads the status; failures are logged and never interrupt polling.
func (a *S3Archive) OnStatus(ctx context.Context, status *monitor.Status) {
	if status == nil {
		return
	}
	if err := a.Put(ctx, status); err != nil {
		a.logger.Errorf("fail to archive status: %v", err)
	}
}

func (a *S3Archive) Put(ctx context.Context, status *monitor.Status) error {
	body, err := json.Marshal(status.Body())
	if err != nil {
		return fmt.Errorf("fail to marshal status: %w", err)
	}
	_, err = a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(status)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	return err
}

// Key lays objects out as <prefix>/2006/01/02/150405[-error].json in UTC.
func (a *S3Archive) Key(status *monitor.Status) string {
	t := status.UpdatedAt.UTC()
	name := t.Format("150405")
	if !status.OK() {
		name += "-error"
	}
	return path.Join(a.prefix, t.Format("2006/01/02"), name+".json")
}
