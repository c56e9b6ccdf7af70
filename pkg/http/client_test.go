package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string  `json:"name"`
	Temp float64 `json:"temp"`
}

type sampleError struct {
	Cod     string `json:"cod"`
	Message string `json:"message"`
}

func TestClient_GetDecodesSuccess(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"São Paulo","temp":21.5}`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL+"/", ClientOptions{})
	out := &sample{}

	resp, errResp, status, err := client.Request().
		WithPath("data/2.5/weather").
		WithQueryParams(map[string]string{"q": "São Paulo", "units": "metric"}).
		WithSuccessResp(out).
		Execute(context.Background())

	require.NoError(t, err)
	assert.Nil(t, errResp)
	assert.Equal(t, http.StatusOK, status)
	assert.Same(t, out, resp)
	assert.Equal(t, "São Paulo", out.Name)
	assert.Equal(t, 21.5, out.Temp)
	assert.Equal(t, "q=S%C3%A3o+Paulo&units=metric", gotQuery)
}

func TestClient_GetConvertsDeclaredCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=ISO-8859-1")
		// "Malmö" encoded as latin-1
		_, _ = w.Write([]byte("{\"name\":\"Malm\xf6\",\"temp\":3}"))
	}))
	defer server.Close()

	out := &sample{}
	_, _, _, err := NewHttpClient(server.URL, ClientOptions{}).Get(context.Background(), "/", nil, nil, out, nil)

	require.NoError(t, err)
	assert.Equal(t, "Malmö", out.Name)
}

func TestClient_GetReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer server.Close()

	errOut := &sampleError{}
	_, errResp, status, err := NewHttpClient(server.URL, ClientOptions{}).
		Get(context.Background(), "/weather", nil, nil, &sample{}, errOut)

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, http.StatusNotFound, StatusCodeOf(err))
	assert.Same(t, errOut, errResp)
	assert.Equal(t, "city not found", errOut.Message)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Contains(t, string(statusErr.Body), "city not found")
}

func TestClient_GetHonoursContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, status, err := NewHttpClient(server.URL, ClientOptions{}).Get(ctx, "/", nil, nil, &sample{}, nil)

	require.Error(t, err)
	assert.Zero(t, status)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Zero(t, StatusCodeOf(err))
}

func TestZapLogger_MasksParams(t *testing.T) {
	logger := NewZapLogger("appid")

	masked := logger.mask("https://api.example.com/weather?appid=secret&q=Paris")

	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "q=Paris")
}
