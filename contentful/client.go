package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	extErrors "github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// DefaultLocale is used whenever no better locale can be negotiated
const DefaultLocale = "en"

// Querier executes a GraphQL query and decodes the data field into out
type Querier interface {
	Query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error
}

var _ Querier = &Client{}

// QueryError is returned when the content API responds with a non-2xx status or GraphQL errors
type QueryError struct {
	StatusCode int
	Messages   []string
}

func (e *QueryError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("Contentful responded with HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("Contentful responded with HTTP %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// ClientOptions contains the configuration of the content API client
type ClientOptions struct {
	GraphQLURL  string
	CDNURL      string
	SpaceID     string
	Environment string
	AccessToken string
	HTTPClient  *http.Client
	LocaleCache LocaleCache
	Logger      *zap.Logger

	// Consecutive failures before the breaker opens, and how long it stays open
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func (o *ClientOptions) validate() error {
	if o.GraphQLURL == "" {
		return fmt.Errorf("empty GraphQLURL is invalid")
	}
	if o.CDNURL == "" {
		return fmt.Errorf("empty CDNURL is invalid")
	}
	if o.SpaceID == "" {
		return fmt.Errorf("empty SpaceID is invalid")
	}
	if o.AccessToken == "" {
		return fmt.Errorf("empty AccessToken is invalid")
	}
	if o.LocaleCache == nil {
		return fmt.Errorf("nil LocaleCache is invalid")
	}
	if o.Logger == nil {
		return fmt.Errorf("nil Logger is invalid")
	}
	if o.Environment == "" {
		o.Environment = "master"
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: time.Second * 15}
	}
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 5
	}
	if o.OpenTimeout == 0 {
		o.OpenTimeout = time.Second * 30
	}
	return nil
}

// Client talks to the Contentful GraphQL and CDN APIs
type Client struct {
	ClientOptions
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient returns a content API client
func NewClient(option ClientOptions) (*Client, error) {
	if err := option.validate(); err != nil {
		return nil, err
	}
	c := &Client{
		ClientOptions: option,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "contentful",
		Timeout: option.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= option.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			var gone *callerGoneError
			return err == nil || errors.As(err, &gone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			option.Logger.Warn("Circuit breaker state changed",
				zap.String("Breaker", name),
				zap.String("From", from.String()),
				zap.String("To", to.String()),
			)
		},
	})
	return c, nil
}

// callerGoneError marks a request abandoned by the caller's context. The upstream is not at
// fault, so the breaker does not count it.
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }
func (e *callerGoneError) Unwrap() error { return e.err }

// execute runs one round trip through the breaker
func (c *Client) execute(ctx context.Context, newRequest func() (*http.Request, error)) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := newRequest()
		if err != nil {
			return nil, err
		}
		raw, err := c.do(req)
		if err != nil && ctx.Err() != nil {
			return nil, &callerGoneError{err: err}
		}
		return raw, err
	})
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *Client) graphQLEndpoint() string {
	return fmt.Sprintf("%s/content/v1/spaces/%s/environments/%s", strings.TrimRight(c.GraphQLURL, "/"), c.SpaceID, c.Environment)
}

func (c *Client) localesEndpoint() string {
	return fmt.Sprintf("%s/spaces/%s/environments/%s/locales", strings.TrimRight(c.CDNURL, "/"), c.SpaceID, c.Environment)
}

// Query executes the GraphQL query. Transport failures, non-2xx responses and GraphQL errors are all returned.
func (c *Client) Query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return extErrors.Wrap(err, "Cannot encode GraphQL request")
	}

	raw, err := c.execute(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphQLEndpoint(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return extErrors.Wrap(err, "Cannot query Contentful")
	}

	var resp graphQLResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return extErrors.Wrap(err, "Invalid GraphQL response")
	}
	if len(resp.Errors) > 0 {
		qErr := &QueryError{StatusCode: http.StatusOK}
		for _, e := range resp.Errors {
			qErr.Messages = append(qErr.Messages, e.Message)
		}
		return qErr
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return extErrors.Wrap(err, "Cannot decode GraphQL data")
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		qErr := &QueryError{StatusCode: res.StatusCode}
		var gqlResp graphQLResponse
		if json.Unmarshal(raw, &gqlResp) == nil {
			for _, e := range gqlResp.Errors {
				qErr.Messages = append(qErr.Messages, e.Message)
			}
		}
		return nil, qErr
	}
	return raw, nil
}

type localesResponse struct {
	Items []struct {
		Code string `json:"code"`
	} `json:"items"`
}

// Locales returns the locale codes configured in the space, served from the LocaleCache when possible
func (c *Client) Locales(ctx context.Context) ([]string, error) {
	cached, ok, err := c.LocaleCache.Get(ctx)
	if err != nil {
		c.Logger.Warn("Cannot read locales from cache",
			zap.Error(err),
		)
	}
	if ok {
		return cached, nil
	}

	raw, err := c.execute(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.localesEndpoint(), nil)
	})
	if err != nil {
		return nil, extErrors.Wrap(err, "Cannot fetch locales from Contentful")
	}

	var resp localesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, extErrors.Wrap(err, "Invalid locales response")
	}
	locales := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		locales = append(locales, item.Code)
	}

	if err := c.LocaleCache.Set(ctx, locales); err != nil {
		c.Logger.Warn("Cannot write locales to cache",
			zap.Error(err),
		)
	}
	return locales, nil
}

// GetLocale negotiates the best available locale for an Accept-Language header.
// Any failure falls back to DefaultLocale.
func (c *Client) GetLocale(ctx context.Context, acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLocale
	}
	locales, err := c.Locales(ctx)
	if err != nil {
		c.Logger.Error("Cannot list locales, using default",
			zap.Error(err),
		)
		return DefaultLocale
	}
	return matchLocale(locales, acceptLanguage)
}

func matchLocale(available []string, acceptLanguage string) string {
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return DefaultLocale
	}

	tags := make([]language.Tag, 0, len(available)+1)
	codes := make([]string, 0, len(available)+1)
	// the default goes first so the matcher falls back to it
	tags = append(tags, language.Make(DefaultLocale))
	codes = append(codes, DefaultLocale)
	for _, code := range available {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}

	_, index, confidence := language.NewMatcher(tags).Match(desired...)
	if confidence == language.No {
		return DefaultLocale
	}
	return codes[index]
}
