package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/climatesense/climatesense/internal/weather"
)

// OpenWeatherClient fetches current conditions, forecasts, air pollution and
// UV readings from the OpenWeather API family. Each endpoint has its own
// circuit breaker so an outage on one does not blind the others.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig

	currentCB  *gobreaker.CircuitBreaker
	forecastCB *gobreaker.CircuitBreaker
	airCB      *gobreaker.CircuitBreaker
	uvCB       *gobreaker.CircuitBreaker
}

// NewOpenWeatherClient creates a client with resilience defaults.
func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org/data/2.5",
		httpCfg:    DefaultClientConfig(client),
		currentCB:  NewBreaker("openweather-current"),
		forecastCB: NewBreaker("openweather-forecast"),
		airCB:      NewBreaker("openweather-air"),
		uvCB:       NewBreaker("openweather-uv"),
	}
}

// currentPayload mirrors the /weather response shape.
type currentPayload struct {
	Dt    int64 `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// CurrentWeather returns the measurement snapshot for a "City,CC" location.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, location string) (weather.Snapshot, error) {
	if c.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := Do(ctx, c.httpCfg, c.currentCB, func() (*http.Request, error) {
		return c.buildRequest("/weather", url.Values{"q": {location}})
	})
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload currentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, err
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	snap := weather.Snapshot{
		Location:     weather.ParseLocation(location),
		ObservedAt:   ts,
		TemperatureC: payload.Main.Temp,
		FeelsLikeC:   payload.Main.FeelsLike,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		PressureHpa:  payload.Main.Pressure,
		Lat:          payload.Coord.Lat,
		Lon:          payload.Coord.Lon,
	}
	if len(payload.Weather) > 0 {
		snap.Description = payload.Weather[0].Description
		snap.Icon = payload.Weather[0].Icon
	}
	if payload.Sys.Sunrise > 0 {
		snap.Sunrise = time.Unix(payload.Sys.Sunrise, 0).UTC()
	}
	if payload.Sys.Sunset > 0 {
		snap.Sunset = time.Unix(payload.Sys.Sunset, 0).UTC()
	}
	return snap, nil
}

// Forecast returns the raw 5-day/3-hour forecast sample sequence.
func (c *OpenWeatherClient) Forecast(ctx context.Context, location string) ([]weather.ForecastSample, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := Do(ctx, c.httpCfg, c.forecastCB, func() (*http.Request, error) {
		return c.buildRequest("/forecast", url.Values{"q": {location}})
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				TempMin float64 `json:"temp_min"`
				TempMax float64 `json:"temp_max"`
			} `json:"main"`
			Weather []struct {
				Icon string `json:"icon"`
			} `json:"weather"`
			Pop float64 `json:"pop"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		s := weather.ForecastSample{
			Timestamp:  time.Unix(item.Dt, 0).UTC(),
			TempMinC:   item.Main.TempMin,
			TempMaxC:   item.Main.TempMax,
			PrecipProb: item.Pop,
		}
		if len(item.Weather) > 0 {
			s.Icon = item.Weather[0].Icon
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// AirPollution returns the current pollutant index plus a next-day forecast
// index derived from the forecast endpoint when available.
func (c *OpenWeatherClient) AirPollution(ctx context.Context, lat, lon float64) (weather.AirQualityReading, error) {
	if c.apiKey == "" {
		return weather.AirQualityReading{}, fmt.Errorf("openweather api key is not configured")
	}

	coords := url.Values{
		"lat": {fmt.Sprintf("%f", lat)},
		"lon": {fmt.Sprintf("%f", lon)},
	}

	resp, err := Do(ctx, c.httpCfg, c.airCB, func() (*http.Request, error) {
		return c.buildRequest("/air_pollution", coords)
	})
	if err != nil {
		return weather.AirQualityReading{}, err
	}
	defer resp.Body.Close()

	current, err := decodeAQI(resp)
	if err != nil {
		return weather.AirQualityReading{}, err
	}
	reading := weather.AirQualityReading{Index: current}

	// The forecast index is auxiliary; its failure degrades to nil.
	fresp, err := Do(ctx, c.httpCfg, c.airCB, func() (*http.Request, error) {
		return c.buildRequest("/air_pollution/forecast", coords)
	})
	if err == nil {
		defer fresp.Body.Close()
		if idx, derr := decodeAQIForecastNextDay(fresp); derr == nil && idx > 0 {
			reading.ForecastIndex = &idx
		}
	}

	return reading, nil
}

// UVIndex returns the current UV index for a coordinate.
func (c *OpenWeatherClient) UVIndex(ctx context.Context, lat, lon float64) (float64, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := Do(ctx, c.httpCfg, c.uvCB, func() (*http.Request, error) {
		return c.buildRequest("/uvi", url.Values{
			"lat": {fmt.Sprintf("%f", lat)},
			"lon": {fmt.Sprintf("%f", lon)},
		})
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var payload struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}
	return payload.Value, nil
}

func (c *OpenWeatherClient) buildRequest(path string, values url.Values) (*http.Request, error) {
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
	return http.NewRequest(http.MethodGet, u, nil)
}

func decodeAQI(resp *http.Response) (int, error) {
	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}
	if len(payload.List) == 0 {
		return 0, fmt.Errorf("empty air pollution response")
	}
	return payload.List[0].Main.AQI, nil
}

// decodeAQIForecastNextDay picks the worst index among the forecast entries
// falling on the next calendar day (UTC).
func decodeAQIForecastNextDay(resp *http.Response) (int, error) {
	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	worst := 0
	for _, item := range payload.List {
		if time.Unix(item.Dt, 0).UTC().Format("2006-01-02") != tomorrow {
			continue
		}
		if item.Main.AQI > worst {
			worst = item.Main.AQI
		}
	}
	return worst, nil
}
