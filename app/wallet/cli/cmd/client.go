package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// maxElapsed bounds how long a call keeps retrying a node that is
// unreachable or answering with a server error.
var maxElapsed = 10 * time.Second

type client struct {
	url  string
	http *http.Client
}

func newClient(url string) *client {
	return &client{
		url:  url,
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out, true)
}

func (c *client) post(path string, in any, out any) error {
	var body []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = data
	}

	return c.do(http.MethodPost, path, body, out, false)
}

// do performs the call retrying with exponential backoff while the node
// is unreachable or failing. Client errors are returned immediately. When
// the call is not idempotent, it is only retried if the connection to the
// node could not be made, since otherwise the node may have applied it.
func (c *client) do(method string, path string, body []byte, out any, idempotent bool) error {
	op := func() error {
		req, err := http.NewRequest(method, c.url+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if !idempotent && !isDialError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			if !idempotent {
				return backoff.Permanent(err)
			}
			return err
		}

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			err := fmt.Errorf("node: %s: %s", resp.Status, errorText(data))
			if !idempotent {
				return backoff.Permanent(err)
			}
			return err
		case resp.StatusCode >= http.StatusBadRequest:
			return backoff.Permanent(fmt.Errorf("node: %s: %s", resp.Status, errorText(data)))
		case resp.StatusCode == http.StatusNoContent || out == nil:
			return nil
		}

		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = maxElapsed

	return backoff.Retry(op, b)
}

// isDialError reports whether the request failed while connecting, before
// anything was sent to the node.
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// errorText extracts the error message from a node error response.
func errorText(data []byte) string {
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || resp.Error == "" {
		return string(data)
	}

	if len(resp.Fields) > 0 {
		return fmt.Sprintf("%s %v", resp.Error, resp.Fields)
	}

	return resp.Error
}
