package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes events to an SNS topic. The message body is the JSON
// event envelope; the event name and correlation id are repeated as message
// attributes so subscribers can filter without parsing the body.
type SNSNotifier struct {
	client   snsAPI
	topicARN string
}

// SNSConfig holds configuration for the SNS notifier
type SNSConfig struct {
	Region    string
	TopicARN  string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for LocalStack and compatible services
}

func NewSNSNotifier(sc SNSConfig) (*SNSNotifier, error) {
	ctx := context.Background()

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(sc.Region))

	if sc.AccessKey != "" && sc.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKey, sc.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *sns.Client
	if sc.Endpoint != "" {
		client = sns.NewFromConfig(awsCfg, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(sc.Endpoint)
		})
	} else {
		client = sns.NewFromConfig(awsCfg)
	}

	return &SNSNotifier{client: client, topicARN: sc.TopicARN}, nil
}

func (n *SNSNotifier) Publish(ctx context.Context, evt Event) (Result, error) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode event %s: %w", evt.Name, err)
	}

	attrs := map[string]types.MessageAttributeValue{
		"event": {
			DataType:    aws.String("String"),
			StringValue: aws.String(evt.Name),
		},
	}
	if evt.CorrelationID != "" {
		attrs["cid"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(evt.CorrelationID),
		}
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(n.topicARN),
		Message:           aws.String(string(body)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to publish event %s: %w", evt.Name, err)
	}

	return Result{Published: true}, nil
}
