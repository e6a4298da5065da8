package tm

import (
	"context"
	"io"
	"net/http"
	"strings"

	"freight-relay/core/apperr"
)

// session is the anti-forgery token and cookie pair TM requires on every
// mutating call.
type session struct {
	token  string
	cookie string
}

func (s session) apply(req *http.Request) {
	if s.token != "" {
		req.Header.Set("x-csrf-token", s.token)
	}
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}
}

// fetchSession performs the token handshake against $metadata.
func (c *Client) fetchSession(ctx context.Context) (session, error) {
	const op = "TM CSRF fetch"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("$metadata", c.clientQuery()), nil)
	if err != nil {
		return session{}, &apperr.UpstreamError{Op: op, Err: err}
	}
	c.setAuth(req)
	req.Header.Set("x-csrf-token", "Fetch")
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.http.Do(req)
	if err != nil {
		return session{}, &apperr.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return session{}, &apperr.UpstreamError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return session{
		token:  resp.Header.Get("x-csrf-token"),
		cookie: joinCookies(resp.Header.Values("Set-Cookie")),
	}, nil
}

// joinCookies keeps the name=value part of every Set-Cookie header.
func joinCookies(headers []string) string {
	parts := make([]string, 0, len(headers))
	for _, h := range headers {
		nameValue, _, _ := strings.Cut(h, ";")
		nameValue = strings.TrimSpace(nameValue)
		if nameValue != "" {
			parts = append(parts, nameValue)
		}
	}
	return strings.Join(parts, "; ")
}
