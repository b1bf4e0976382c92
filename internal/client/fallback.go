package client

import (
	"context"
	"fmt"
)

// Endpoints is an ordered list of URL paths for one logical operation. The
// primary sits at index 0; the rest are fallbacks kept for deployments whose
// routes moved. Traversal order is declaration order, always.
type Endpoints []string

func (e Endpoints) Primary() string {
	if len(e) == 0 {
		return ""
	}
	return e[0]
}

// Child derives the detail routes for a resource id, preserving order.
func (e Endpoints) Child(segments ...string) Endpoints {
	child := make(Endpoints, len(e))
	for i, path := range e {
		for _, seg := range segments {
			path += seg + "/"
		}
		child[i] = path
	}
	return child
}

// doFallback walks the endpoint list strictly in order. Endpoint k+1 is
// attempted only after endpoint k fails with a 404 or a transport error;
// any other failure stops the scan and is surfaced as-is. On exhaustion the
// last observed error is returned, wrapped in a summary error when no
// endpoint was reachable at all.
func (c *Client) doFallback(ctx context.Context, method string, eps Endpoints, token string, body, out interface{}) error {
	if len(eps) == 0 {
		return fmt.Errorf("no endpoints configured")
	}

	var last error
	reachable := false
	for _, path := range eps {
		err := c.do(ctx, method, path, token, body, out)
		if err == nil {
			return nil
		}
		if !retriable(err) {
			return err
		}
		if !IsNetwork(err) {
			reachable = true
		}
		last = err
		c.log.Debug().Str("path", path).Err(err).Msg("endpoint failed, trying next")
	}

	if !reachable {
		return &APIError{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("all %d endpoints unreachable: %v", len(eps), last),
		}
	}
	return last
}
