package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/raf-alpha/api-go/notify"
)

// Notifications opens the server-sent event stream. The channel closes when
// ctx is cancelled or the server ends the stream.
func (c *Client) Notifications(ctx context.Context) (<-chan notify.Event, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint("/notifications/stream", c.lang), nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open notification stream: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	out := make(chan notify.Event, 16)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		if err := readEvents(ctx, resp.Body, out); err != nil && ctx.Err() == nil {
			c.log.WarnContext(ctx, "notification stream ended", "error", err)
		}
	}()
	return out, nil
}

// readEvents parses the event stream and forwards each dashboard event.
// Comments and the "ready" greeting are skipped.
func readEvents(ctx context.Context, r io.Reader, out chan<- notify.Event) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var name string
	var data strings.Builder
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if name != "" && name != "ready" && data.Len() > 0 {
				var e notify.Event
				if err := json.Unmarshal([]byte(data.String()), &e); err == nil {
					if e.Type == "" {
						e.Type = name
					}
					select {
					case out <- e:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			name = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return sc.Err()
}
