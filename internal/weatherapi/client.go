package weatherapi

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"weatherfetcher/internal/weather"
)

var errUpstreamStatus = errors.New("upstream returned failure status")

// WeatherAPI.com uses error code 1006 for "no matching location found".
const codeNoMatchingLocation = 1006

// apiErrorBody is the provider's error envelope on non-2xx responses.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// payload mirrors the subset of the WeatherAPI current-conditions response
// the adapter consumes. Required leaves are pointers so a structurally
// missing field is distinguishable from a zero value.
type payload struct {
	Location *struct {
		Name string `json:"name"`
	} `json:"location"`
	Current *struct {
		TempC     *float64 `json:"temp_c"`
		Humidity  *int     `json:"humidity"`
		WindKph   *float64 `json:"wind_kph"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// Client fetches current conditions from WeatherAPI.com. It is a pure
// translation boundary: one logical outbound call per Fetch, every outcome
// mapped to a normalized record or exactly one taxonomy error.
type Client struct {
	apiKey  string
	timeout time.Duration
	http    *resty.Client
	limiter *rate.Limiter
	circuit *gobreaker.CircuitBreaker
}

// New creates a WeatherAPI client. rps bounds outbound request rate;
// timeout bounds the whole fetch including transport retries.
func New(apiKey, baseURL string, timeout time.Duration, rps float64) *Client {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:  apiKey,
		timeout: timeout,
		http:    newHTTPClient(baseURL, timeout),
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		circuit: cb,
	}
}

// Name returns the fixed provider identifier.
func (c *Client) Name() string {
	return weather.ProviderName
}

// Fetch retrieves current weather for the given city. The city string is
// passed through as-is; canonicalization of the display name is the
// provider's job and is read back from the response.
func (c *Client) Fetch(ctx context.Context, city string) (weather.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return weather.Record{}, weather.NewTimeout(err)
	}

	var (
		result payload
		apiErr apiErrorBody
		resp   *resty.Response
	)

	_, err := c.circuit.Execute(func() (interface{}, error) {
		r, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"key": c.apiKey,
				"q":   city,
				"aqi": "no",
			}).
			SetResult(&result).
			SetError(&apiErr).
			Get("/current.json")
		if err != nil {
			return nil, err
		}
		resp = r

		// Server-side failures trip the breaker; client errors do not.
		if r.StatusCode() == 429 || r.StatusCode() >= 500 {
			return nil, errUpstreamStatus
		}
		return r, nil
	})

	if err != nil {
		return weather.Record{}, c.classifyFailure(err, resp)
	}

	switch {
	case resp.IsSuccess():
		return c.mapToRecord(result)
	case resp.StatusCode() == 400:
		if apiErr.Error.Code == codeNoMatchingLocation {
			return weather.Record{}, weather.NewUnknownCity(city)
		}
		msg := apiErr.Error.Message
		if msg == "" {
			msg = "weather provider rejected the request"
		}
		return weather.Record{}, weather.NewBadRequest(msg)
	case resp.StatusCode() == 401 || resp.StatusCode() == 403:
		// Bad or exhausted credential: our problem operationally, but to the
		// caller the upstream is simply unavailable.
		return weather.Record{}, weather.NewUpstreamUnavailable(resp.StatusCode())
	default:
		return weather.Record{}, weather.NewInternalProviderError(
			"unexpected response from weather provider", nil)
	}
}

// classifyFailure maps transport and breaker failures to taxonomy errors.
func (c *Client) classifyFailure(err error, resp *resty.Response) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &weather.Error{
			Kind:    weather.KindUpstreamUnavailable,
			Message: "weather provider is temporarily unavailable",
			Details: map[string]string{"reason": "circuit_open"},
			Cause:   err,
		}
	}

	if errors.Is(err, errUpstreamStatus) && resp != nil {
		switch {
		case resp.StatusCode() == 429 || resp.StatusCode() == 503:
			return weather.NewUpstreamUnavailable(resp.StatusCode())
		default:
			return weather.NewInternalProviderError(
				"weather provider returned a server error", nil)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return weather.NewTimeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return weather.NewTimeout(err)
	}

	return weather.NewNetworkUnavailable(err)
}

// mapToRecord builds a normalized record from a success payload. Any
// structurally missing required field is a provider contract violation;
// a record is never partially constructed.
func (c *Client) mapToRecord(p payload) (weather.Record, error) {
	missing := ""
	switch {
	case p.Location == nil:
		missing = "location"
	case p.Current == nil:
		missing = "current"
	case p.Current.TempC == nil:
		missing = "current.temp_c"
	case p.Current.Humidity == nil:
		missing = "current.humidity"
	case p.Current.WindKph == nil:
		missing = "current.wind_kph"
	}
	if missing != "" {
		return weather.Record{}, &weather.Error{
			Kind:    weather.KindInternalProviderError,
			Message: "weather provider response missing required field",
			Details: map[string]string{"field": missing},
		}
	}

	rec := weather.Record{
		City:        p.Location.Name,
		Temperature: *p.Current.TempC,
		Humidity:    *p.Current.Humidity,
		WindSpeed:   *p.Current.WindKph,
		Condition:   p.Current.Condition.Text,
		FetchedAt:   time.Now().UTC(),
		Provider:    weather.ProviderName,
	}

	if err := rec.Validate(); err != nil {
		return weather.Record{}, weather.NewInternalProviderError(
			"weather provider response violates contract", err)
	}

	return rec, nil
}
