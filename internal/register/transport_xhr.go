//go:build js

package register

import (
	"context"

	"honnef.co/go/js/xhr"
)

// XHRTransport posts through the browser's XMLHttpRequest. Post blocks until
// the request completes, so it must run on its own goroutine.
type XHRTransport struct{}

func (XHRTransport) Post(ctx context.Context, url string, header map[string]string, body []byte) (int, []byte, error) {
	req := xhr.NewRequest("POST", url)
	req.ResponseType = xhr.Text
	for k, v := range header {
		req.SetRequestHeader(k, v)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			req.Abort()
		case <-done:
		}
	}()

	if err := req.Send(string(body)); err != nil {
		return 0, nil, err
	}
	return req.Status, []byte(req.ResponseText), nil
}
