package notify

import (
	"context"

	"github.com/rs/zerolog"

	"examnotify/models"
)

const pushTitle = "New Notification"

// Outcome records one delivery attempt. Exactly one of MessageID and Error
// is set.
type Outcome struct {
	NotificationID uint   `json:"id"`
	MessageID      string `json:"message_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (o Outcome) OK() bool { return o.Error == "" }

type Dispatcher struct {
	notifier Notifier
	log      zerolog.Logger
}

func NewDispatcher(n Notifier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{notifier: n, log: log}
}

// Dispatch sends one push per notification and collects the outcomes. A
// failed delivery never blocks the rest of the batch and is not retried
// within the pass.
func (d *Dispatcher) Dispatch(ctx context.Context, items []models.Notification) []Outcome {
	outcomes := make([]Outcome, 0, len(items))
	for _, n := range items {
		outcomes = append(outcomes, d.DispatchOne(ctx, n))
	}
	return outcomes
}

// DispatchOne pushes a single notification; also the manual resend path.
func (d *Dispatcher) DispatchOne(ctx context.Context, n models.Notification) Outcome {
	id, err := d.notifier.Send(ctx, pushTitle, n.Text, map[string]string{
		"click_action": n.URL,
		"url":          n.URL,
	})
	if err != nil {
		d.log.Error().Err(err).Uint("notification_id", n.ID).Msg("push delivery failed")
		return Outcome{NotificationID: n.ID, Error: err.Error()}
	}
	return Outcome{NotificationID: n.ID, MessageID: id}
}
