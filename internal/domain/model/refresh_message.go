package model

// CityRefreshMessage is the queue payload asking a worker to refresh one city's snapshot
type CityRefreshMessage struct {
	RequestID string `json:"requestId"`
	CityID    int64  `json:"cityId"`
	CityName  string `json:"cityName"`
}
