package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"weather-api/pkg/resource"
)

// Settings locates the AWS account used by the refresh queue
type Settings struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// SettingsFromProperties reads app.cloud.* from the application properties
func SettingsFromProperties() Settings {
	return Settings{
		Region:          resource.GetStringOrDefault("app.cloud.aws-region", "us-east-1"),
		Endpoint:        resource.GetString("app.cloud.aws-endpoint"),
		AccessKeyID:     resource.GetString("app.cloud.aws-access-key-id"),
		SecretAccessKey: resource.GetString("app.cloud.aws-secret-access-key"),
	}
}

// LoadConfig builds the AWS config. Without static credentials the default chain is used
// (environment, shared profile, IAM role).
func LoadConfig(ctx context.Context, settings Settings) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(settings.Region),
	}
	if settings.AccessKeyID != "" && settings.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewSQSClient creates an SQS client, pointed at settings.Endpoint when one is set (LocalStack)
func NewSQSClient(cfg aws.Config, settings Settings) *sqs.Client {
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
		}
	})
}
