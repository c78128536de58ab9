package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// The remote API caps windowed order reads; matching it here keeps one
// fetch equal to one full analytics window.
const fetchLimit = 1000

// isoMillis matches the wire format the remote API expects for date
// boundaries (UTC with milliseconds).
const isoMillis = "2006-01-02T15:04:05.000Z"

// FetchError is the typed failure of one analytics fetch. Message carries
// the upstream explanation when the response body had one.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	return e.Message
}

// Client reads raw orders from the remote restaurant API and hands them to
// the aggregator. It performs no retries; the refresher's timer and the
// operator's manual refresh are the retry policy.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	// Now is injectable for deterministic window computation in tests.
	Now func() time.Time
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Now:        time.Now,
	}
}

type ordersResponse struct {
	Success bool           `json:"success"`
	Data    []models.Order `json:"data"`
	Message string         `json:"message"`
}

// FetchDashboardAnalytics pulls the order window for the period and
// aggregates it into a snapshot.
func (c *Client) FetchDashboardAnalytics(ctx context.Context, period string) (models.AnalyticsSnapshot, error) {
	now := c.Now()
	start := now
	switch period {
	case models.PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case models.PeriodMonth:
		start = now.AddDate(0, -1, 0)
	default:
		period = models.PeriodToday
		start = midnight(now)
	}

	orders, err := c.fetchOrders(ctx, fetchLimit, &start, &now, "failed to fetch analytics data")
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}
	return BuildSnapshot(orders, period, now), nil
}

// FetchOrdersOverTime pulls the week/month window and buckets counts and
// revenue per weekday slot.
func (c *Client) FetchOrdersOverTime(ctx context.Context, period string) (models.OrdersOverTime, error) {
	now := c.Now()
	start := now.AddDate(0, 0, -7)
	if period == models.PeriodMonth {
		start = now.AddDate(0, -1, 0)
	} else {
		period = models.PeriodWeek
	}

	orders, err := c.fetchOrders(ctx, fetchLimit, &start, &now, "failed to fetch orders data")
	if err != nil {
		return models.OrdersOverTime{}, err
	}
	return OrdersOverTime(orders, period, now), nil
}

// FetchPopularHours pulls today's orders and buckets them into the fixed
// service-hour slots.
func (c *Client) FetchPopularHours(ctx context.Context) ([]models.HourSlot, error) {
	now := c.Now()
	start := midnight(now)

	orders, err := c.fetchOrders(ctx, fetchLimit, &start, nil, "failed to fetch popular hours data")
	if err != nil {
		return nil, err
	}
	return PopularHours(orders, now), nil
}

// FetchRecentActivity pulls the newest orders and maps them onto activity
// rows for the table and the CSV export.
func (c *Client) FetchRecentActivity(ctx context.Context, limit int) ([]models.ActivityRow, error) {
	if limit <= 0 {
		limit = 10
	}
	orders, err := c.fetchOrders(ctx, limit, nil, nil, "failed to fetch recent activity")
	if err != nil {
		return nil, err
	}
	return ActivityRows(orders), nil
}

func (c *Client) fetchOrders(ctx context.Context, limit int, start, end *time.Time, fallback string) ([]models.Order, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	if start != nil {
		q.Set("startDate", start.UTC().Format(isoMillis))
	}
	if end != nil {
		q.Set("endDate", end.UTC().Format(isoMillis))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/api/orders/restaurant?"+q.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Message: fallback}
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{Message: fallback}
	}
	defer resp.Body.Close()

	var body ordersResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || !body.Success {
		msg := fallback
		if body.Message != "" {
			msg = body.Message
		}
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: msg}
	}
	return body.Data, nil
}

func midnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
