package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"weather-api/internal/domain/model"
	"weather-api/internal/domain/usecase/city"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

type CityRefreshProcessor struct {
	cityUseCase city.UseCase
}

func NewCityRefreshProcessor(cityUseCase city.UseCase) *CityRefreshProcessor {
	return &CityRefreshProcessor{
		cityUseCase: cityUseCase,
	}
}

// HandleMessage implements the sqs.Handler interface. A city whose weather is unavailable is
// acknowledged so the queue does not redeliver it until the next scheduled run.
func (p *CityRefreshProcessor) HandleMessage(ctx context.Context, sqsMessage types.Message) error {
	if sqsMessage.Body == nil {
		return fmt.Errorf("received message without body")
	}

	var message model.CityRefreshMessage
	if err := json.Unmarshal([]byte(*sqsMessage.Body), &message); err != nil {
		return fmt.Errorf("failed to unmarshal message body: %w", err)
	}
	if message.CityID == 0 || message.CityName == "" {
		log.Warn(msg.GetMessage("refresh.queue.invalid"), zap.Int64("city_id", message.CityID))
		return fmt.Errorf("invalid refresh message for city %q (id %d)", message.CityName, message.CityID)
	}

	err := p.cityUseCase.RefreshCity(ctx, message)
	if errors.Is(err, city.ErrWeatherUnavailable) {
		log.Warn(msg.GetMessage("refresh.queue.unavailable", message.CityName),
			zap.String("request_id", message.RequestID),
			zap.String("city_name", message.CityName))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to refresh city %s: %w", message.CityName, err)
	}
	return nil
}
