package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model"
	"weather-api/internal/domain/usecase/city"
)

type refreshRecorder struct {
	messages []model.CityRefreshMessage
	err      error
}

func (r *refreshRecorder) Create(context.Context, string) (*model.CityResponse, error) {
	return nil, nil
}

func (r *refreshRecorder) FindAll(context.Context, bool) ([]model.CityResponse, error) {
	return nil, nil
}

func (r *refreshRecorder) Remove(context.Context, int64) (*entity.City, error) { return nil, nil }

func (r *refreshRecorder) Last7Days(context.Context, string) ([]model.UnifiedDaySummary, error) {
	return nil, nil
}

func (r *refreshRecorder) RefreshAll(context.Context, string) error { return nil }

func (r *refreshRecorder) RefreshCity(_ context.Context, message model.CityRefreshMessage) error {
	r.messages = append(r.messages, message)
	return r.err
}

func TestCityRefreshProcessor_HandleMessage(t *testing.T) {
	recorder := &refreshRecorder{}
	processor := NewCityRefreshProcessor(recorder)

	err := processor.HandleMessage(context.Background(), types.Message{
		Body: aws.String(`{"requestId":"req-1","cityId":2759794,"cityName":"Amsterdam"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, []model.CityRefreshMessage{{RequestID: "req-1", CityID: 2759794, CityName: "Amsterdam"}}, recorder.messages)
}

func TestCityRefreshProcessor_RejectsBadMessages(t *testing.T) {
	processor := NewCityRefreshProcessor(&refreshRecorder{})

	assert.Error(t, processor.HandleMessage(context.Background(), types.Message{}))
	assert.Error(t, processor.HandleMessage(context.Background(), types.Message{Body: aws.String("not json")}))
	assert.Error(t, processor.HandleMessage(context.Background(), types.Message{Body: aws.String(`{"cityId":0}`)}))
}

func TestCityRefreshProcessor_Failures(t *testing.T) {
	body := aws.String(`{"cityId":1,"cityName":"Oslo"}`)

	unavailable := NewCityRefreshProcessor(&refreshRecorder{err: fmt.Errorf("Oslo: %w", city.ErrWeatherUnavailable)})
	assert.NoError(t, unavailable.HandleMessage(context.Background(), types.Message{Body: body}))

	failing := NewCityRefreshProcessor(&refreshRecorder{err: errors.New("db down")})
	assert.ErrorContains(t, failing.HandleMessage(context.Background(), types.Message{Body: body}), "db down")
}
