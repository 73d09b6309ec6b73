package connector

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/cockroachdb/errors"
)

// RegionDetect resolves the region from the instance metadata service.
const RegionDetect = "detect"

type KinesisConfig struct {
	StreamName   string `prop:"kinesis.stream.name"`
	Region       string `prop:"kinesis.stream.region"`
	Endpoint     string `prop:"kinesis.endpoint"`
	AccessKey    string `prop:"kinesis.credentials.access"`
	SecretKey    string `prop:"kinesis.credentials.secret"`
	SessionToken string `prop:"kinesis.credentials.session_token"`
	RoleARN      string `prop:"kinesis.assumerole.arn"`
	ExternalID   string `prop:"kinesis.assumerole.external_id"`
}

func (*KinesisConfig) Connector() string { return Kinesis }

func (c *KinesisConfig) Validate() error {
	if c.StreamName == "" {
		return errors.New("kinesis.stream.name is required")
	}
	if c.Region == "" {
		return errors.New("kinesis.stream.region is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.New("kinesis.credentials.access and kinesis.credentials.secret must be set together")
	}
	if c.ExternalID != "" && c.RoleARN == "" {
		return errors.New("kinesis.assumerole.external_id requires kinesis.assumerole.arn")
	}
	return nil
}

// AWSConfig loads the SDK configuration for the stream: static credentials
// when given, otherwise the default chain, optionally wrapped in an assumed role.
func (c *KinesisConfig) AWSConfig(ctx context.Context) (aws.Config, error) {
	region, err := c.region(ctx)
	if err != nil {
		return aws.Config{}, err
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if c.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, c.SessionToken)))
	}
	if c.Endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(c.Endpoint))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "load aws config")
	}

	if c.RoleARN != "" {
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), c.RoleARN,
			func(o *stscreds.AssumeRoleOptions) {
				if c.ExternalID != "" {
					o.ExternalID = aws.String(c.ExternalID)
				}
			})
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}
	return cfg, nil
}

func (c *KinesisConfig) region(ctx context.Context) (string, error) {
	if c.Region != RegionDetect {
		return c.Region, nil
	}
	client := imds.New(imds.Options{
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	})
	out, err := client.GetRegion(ctx, &imds.GetRegionInput{})
	if err != nil {
		return "", errors.Wrap(err, "detect region from instance metadata")
	}
	return out.Region, nil
}
