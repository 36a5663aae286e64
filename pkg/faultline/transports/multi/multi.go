// Package multi provides a transport that fans out to multiple transports.
// All transports receive every event; failures are aggregated.
package multi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/strongdm/faultline/pkg/faultline"
)

// Transport fans out to multiple transports concurrently.
type Transport struct {
	transports []faultline.Transport
}

// New creates a transport that sends to every given transport.
func New(transports ...faultline.Transport) *Transport {
	return &Transport{transports: transports}
}

// Send delivers payload to all transports and waits for them. It reports
// 200 only when every transport succeeded; otherwise it returns the first
// failing status and all errors joined.
func (t *Transport) Send(ctx context.Context, endpoint string, payload []byte) (int, error) {
	statuses := make([]int, len(t.transports))
	errs := make([]error, len(t.transports))

	var g errgroup.Group
	for i, tr := range t.transports {
		g.Go(func() error {
			status, err := tr.Send(ctx, endpoint, payload)
			if err == nil && status != http.StatusOK {
				err = fmt.Errorf("transport %d: unexpected status %d", i, status)
			}
			statuses[i], errs[i] = status, err
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return statuses[i], errors.Join(errs...)
		}
	}
	return http.StatusOK, nil
}

// Close calls Close on all transports, collecting any errors.
func (t *Transport) Close() error {
	var errs []error
	for _, tr := range t.transports {
		if err := tr.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
