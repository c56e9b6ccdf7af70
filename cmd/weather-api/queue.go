package main

import (
	"context"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"weather-api/internal/application/processor"
	"weather-api/internal/domain/gateway/queue"
	"weather-api/internal/domain/usecase/city"
	"weather-api/internal/infra/aws"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/resource"
	"weather-api/pkg/sqs"
)

func initSQS(ctx context.Context) (*awssqs.Client, error) {
	settings := aws.SettingsFromProperties()
	cfg, err := aws.LoadConfig(ctx, settings)
	if err != nil {
		return nil, err
	}
	return aws.NewSQSClient(cfg, settings), nil
}

// startRefreshWorker consumes city refresh messages until ctx is done. The worker is registered
// with the queue health gateway while it runs.
func startRefreshWorker(ctx context.Context, client *awssqs.Client, queueName string, cityUseCase city.UseCase, queueHealth queue.HealthGateway) {
	worker, err := sqs.NewWorker(ctx, client, queueName, processor.NewCityRefreshProcessor(cityUseCase), &sqs.WorkerConfig{
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		PoolSize:            resource.GetIntOrDefault("app.sqs.pool-size", 2),
		LogLevel:            sqs.ErrorLevel,
	})
	if err != nil {
		log.Error(msg.GetMessage("app.dependency-unavailable", "City refresh worker"), zap.Error(err))
		return
	}

	queueHealth.RegisterWorker(refreshWorkerName, worker)
	log.Info(msg.GetMessage("refresh.queue.started", queueName))
	go worker.Start(ctx)
}
