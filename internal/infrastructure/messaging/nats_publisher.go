package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"issuetracker/internal/errs"
	"issuetracker/internal/ports"
)

type natsConn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes issue events as JSON on <prefix>.<event type>.
type NATSPublisher struct {
	conn   natsConn
	prefix string
}

var _ ports.EventPublisher = (*NATSPublisher)(nil)

// ConnectNATS dials url. The caller drains the returned connection on shutdown.
func ConnectNATS(url string, name string, timeout time.Duration) (*nats.Conn, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("nats url is required")
	}

	opts := []nats.Option{nats.Name(name)}
	if timeout > 0 {
		opts = append(opts, nats.Timeout(timeout))
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errs.Wrapf(err, "connect nats %q", url)
	}
	return conn, nil
}

func NewNATSPublisher(conn natsConn, prefix string) *NATSPublisher {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = "issues"
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

func (p *NATSPublisher) Subject(eventType ports.IssueEventType) string {
	return p.prefix + "." + string(eventType)
}

func (p *NATSPublisher) Publish(ctx context.Context, event ports.IssueEvent) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "encode issue event")
	}
	if err := p.conn.Publish(p.Subject(event.Type), payload); err != nil {
		return errs.Wrapf(err, "publish %s", p.Subject(event.Type))
	}
	return nil
}
