package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	graphql "github.com/hasura/go-graphql-client"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// FetchError is a failed remote call. It aborts the run.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client queries the GraphQL API.
type Client struct {
	gql     *graphql.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client sending token as a bearer credential.
func NewClient(endpoint, token string, logger *zap.Logger, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c := &Client{
		gql:    graphql.NewClient(endpoint, oauth2.NewClient(context.Background(), src)),
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do runs one operation and decodes its data object into out.
func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	if err := c.exec(ctx, op, query, vars, out); err != nil {
		return &FetchError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) exec(ctx context.Context, op, query string, vars map[string]any, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := c.gql.ExecRaw(ctx, query, vars, graphql.OperationName(op))
	c.logger.Debug("GraphQL call",
		zap.String("operation", op),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return responseError(err)
	}
	if len(data) == 0 || string(data) == "null" {
		return errors.New("response has no data")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

// responseError flattens the client's error list into one message.
// Transport and decode failures arrive as entries with a code extension.
func responseError(err error) error {
	var gqlErrs graphql.Errors
	if !errors.As(err, &gqlErrs) || len(gqlErrs) == 0 {
		return err
	}
	msgs := make([]string, len(gqlErrs))
	for i, e := range gqlErrs {
		msgs[i] = e.Message
	}
	msg := strings.Join(msgs, "; ")
	switch gqlErrs[0].Extensions["code"] {
	case graphql.ErrRequestError:
		return fmt.Errorf("request failed: %s", msg)
	case graphql.ErrJsonDecode:
		return fmt.Errorf("decoding response: %s", msg)
	default:
		return fmt.Errorf("graphql: %s", msg)
	}
}
