package aws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/internal/domain/gateway/queue"
	"weather-api/internal/domain/model"
)

type recordingSQS struct {
	entries []types.SendMessageBatchRequestEntry
}

func (r *recordingSQS) GetQueueUrl(_ context.Context, in *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String("http://localhost:4566/000000000000/" + *in.QueueName)}, nil
}

func (r *recordingSQS) SendMessage(context.Context, *sqs.SendMessageInput, ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	return &sqs.SendMessageOutput{}, nil
}

func (r *recordingSQS) SendMessageBatch(_ context.Context, in *sqs.SendMessageBatchInput, _ ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	r.entries = append(r.entries, in.Entries...)
	out := &sqs.SendMessageBatchOutput{}
	for _, entry := range in.Entries {
		out.Successful = append(out.Successful, types.SendMessageBatchResultEntry{Id: entry.Id})
	}
	return out, nil
}

func TestSQSSenderAdapter_SendMessageBatch(t *testing.T) {
	client := &recordingSQS{}
	adapter := NewSQSSenderAdapter(client)

	result, err := adapter.SendMessageBatch(context.Background(), "weather-refresh", []queue.BatchMessage{
		{MessageID: "refresh-city-1", Body: model.CityRefreshMessage{RequestID: "req", CityID: 1, CityName: "Oslo"}},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"refresh-city-1"}, result.Successful)
	assert.Empty(t, result.Failed)
	require.Len(t, client.entries, 1)

	var body model.CityRefreshMessage
	require.NoError(t, json.Unmarshal([]byte(*client.entries[0].MessageBody), &body))
	assert.Equal(t, "Oslo", body.CityName)
}

func TestLoadConfig_StaticCredentials(t *testing.T) {
	settings := Settings{Region: "eu-west-1", AccessKeyID: "test", SecretAccessKey: "secret", Endpoint: "http://localhost:4566"}

	cfg, err := LoadConfig(context.Background(), settings)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)

	assert.NotNil(t, NewSQSClient(cfg, settings))
}
