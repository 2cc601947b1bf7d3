package outbound

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgboundary"
	"github.com/shandysiswandi/faultline/internal/pkg/pkghttpclient"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgresult"
	"github.com/shandysiswandi/faultline/internal/users/entity"
)

type WebhookDependency struct {
	// Client is bound to the webhook URL. Nil disables delivery.
	Client   *pkghttpclient.Client
	Boundary *pkgboundary.Boundary
	// Runner is never waited on; a delivery with no free slot is dropped.
	Runner   pkgboundary.TryRunner
	RootCtx  context.Context
}

// Webhook posts user events to a single receiver in the background. A
// delivery is attempted once; failures are logged with their adapted
// message.
type Webhook struct {
	client   *pkghttpclient.Client
	boundary *pkgboundary.Boundary
	runner   pkgboundary.TryRunner
	rootCtx  context.Context
}

func NewWebhook(dep WebhookDependency) *Webhook {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	b := dep.Boundary
	if b == nil {
		b = pkgboundary.New(pkgboundary.Options{})
	}

	return &Webhook{
		client:   dep.Client,
		boundary: b,
		runner:   dep.Runner,
		rootCtx:  root,
	}
}

type ack struct {
	Received bool `json:"received"`
}

func (w *Webhook) UserCreated(ctx context.Context, user entity.User) {
	if w.client == nil || w.runner == nil {
		return
	}

	event := entity.UserCreatedEvent{
		Type:       entity.EventUserCreated,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: user.CreatedAt.Unix(),
	}

	// Detached from the request, which ends with the response, but still
	// stopped on shutdown. Request values such as the correlation ID stay.
	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(w.rootCtx, cancel)

	scheduled := pkgboundary.TryGo(bg, w.boundary, w.runner, func(ctx context.Context) error {
		defer cancel()
		defer stop()

		res := pkghttpclient.Call[ack](ctx, w.client, pkghttpclient.Request{
			Method: http.MethodPost,
			Header: http.Header{"X-Event-Type": []string{event.Type}},
			Body:   event,
		})

		return pkgresult.Fold(res,
			func(ack) error {
				slog.InfoContext(ctx, "webhook delivered", "event", event.Type, "user_id", strconv.FormatInt(user.ID, 10))
				return nil
			},
			func(err error) error {
				slog.WarnContext(ctx, "webhook delivery failed", "event", event.Type, "user_id", strconv.FormatInt(user.ID, 10), "reason", err.Error())
				return err
			},
		)
	})
	if !scheduled {
		stop()
		cancel()
		slog.WarnContext(ctx, "webhook delivery dropped", "event", event.Type, "user_id", strconv.FormatInt(user.ID, 10))
	}
}
