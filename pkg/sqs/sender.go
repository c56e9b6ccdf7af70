package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"weather-api/pkg/log"
)

const (
	// maxBatchEntries is the SQS limit of entries per SendMessageBatch call
	maxBatchEntries = 10
	// maxParallelBatches bounds the concurrent SendMessageBatch calls of one SendMessageBatch
	maxParallelBatches = 4
)

// BatchMessage represents a message to be sent in batch
type BatchMessage struct {
	MessageID string `json:"messageId"`
	Body      any    `json:"body"`
}

// BatchResult lists the message IDs accepted and rejected by the queue, in input order
type BatchResult struct {
	Successful []string `json:"successful"`
	Failed     []string `json:"failed"`
}

// SQSClient defines the interface for SQS operations
type SQSClient interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// Sender publishes JSON messages. Queue URLs are resolved once per queue name.
type Sender struct {
	sqsClient SQSClient
	queueURLs sync.Map
}

func NewSender(sqsClient SQSClient) *Sender {
	return &Sender{sqsClient: sqsClient}
}

// SendMessage serializes body to JSON and sends it to queueName
func (s *Sender) SendMessage(ctx context.Context, queueName string, body any) error {
	queueURL, err := s.queueURL(ctx, queueName)
	if err != nil {
		return fmt.Errorf("failed to get queue URL for %s: %w", queueName, err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize message body to JSON: %w", err)
	}

	_, err = s.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to queue %s: %w", queueName, err)
	}
	return nil
}

// SendMessageBatch sends messages in chunks of ten, several chunks at a time. A chunk the queue
// rejects as a whole reports all of its IDs as failed; only an unresolvable queue is an error.
func (s *Sender) SendMessageBatch(ctx context.Context, queueName string, messages []BatchMessage) (*BatchResult, error) {
	result := &BatchResult{Successful: []string{}, Failed: []string{}}
	if len(messages) == 0 {
		return result, nil
	}

	queueURL, err := s.queueURL(ctx, queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue URL for %s: %w", queueName, err)
	}

	chunks := chunk(messages, maxBatchEntries)
	results := make([]*BatchResult, len(chunks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelBatches)
	for i, entries := range chunks {
		group.Go(func() error {
			sent, err := s.sendChunk(groupCtx, queueURL, entries)
			if err != nil {
				log.Warn("SQS batch rejected",
					zap.String("queue", queueName),
					zap.Int("entries", len(entries)),
					zap.Error(err))
				sent = &BatchResult{Failed: messageIDs(entries)}
			}
			results[i] = sent
			return nil
		})
	}
	_ = group.Wait()

	for _, sent := range results {
		result.Successful = append(result.Successful, sent.Successful...)
		result.Failed = append(result.Failed, sent.Failed...)
	}
	return result, nil
}

func (s *Sender) sendChunk(ctx context.Context, queueURL string, messages []BatchMessage) (*BatchResult, error) {
	result := &BatchResult{}
	entries := make([]types.SendMessageBatchRequestEntry, 0, len(messages))
	for _, message := range messages {
		payload, err := json.Marshal(message.Body)
		if err != nil {
			result.Failed = append(result.Failed, message.MessageID)
			continue
		}
		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:          aws.String(message.MessageID),
			MessageBody: aws.String(string(payload)),
		})
	}
	if len(entries) == 0 {
		return result, nil
	}

	output, err := s.sqsClient.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(queueURL),
		Entries:  entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message batch: %w", err)
	}

	for _, entry := range output.Successful {
		result.Successful = append(result.Successful, aws.ToString(entry.Id))
	}
	for _, entry := range output.Failed {
		result.Failed = append(result.Failed, aws.ToString(entry.Id))
	}
	return result, nil
}

func (s *Sender) queueURL(ctx context.Context, queueName string) (string, error) {
	if cached, ok := s.queueURLs.Load(queueName); ok {
		return cached.(string), nil
	}

	output, err := s.sqsClient.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(queueName)})
	if err != nil {
		return "", err
	}
	if output.QueueUrl == nil {
		return "", fmt.Errorf("queue URL is nil for queue %s", queueName)
	}

	s.queueURLs.Store(queueName, *output.QueueUrl)
	return *output.QueueUrl, nil
}

func chunk(messages []BatchMessage, size int) [][]BatchMessage {
	chunks := make([][]BatchMessage, 0, (len(messages)+size-1)/size)
	for start := 0; start < len(messages); start += size {
		end := min(start+size, len(messages))
		chunks = append(chunks, messages[start:end])
	}
	return chunks
}

func messageIDs(messages []BatchMessage) []string {
	ids := make([]string, len(messages))
	for i, message := range messages {
		ids[i] = message.MessageID
	}
	return ids
}
