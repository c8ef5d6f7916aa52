package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ThierryWelling/simplo-ti/internal/models"
)

const Channel = "simplo:tickets"

// Event is what dashboard consumers receive when a ticket changes state.
type Event struct {
	Kind     string `json:"kind"` // created | assigned | closed | rated
	TicketID string `json:"ticketId"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	ActorID  string `json:"actorId"`
}

// Publisher fans ticket lifecycle events out over a Redis channel. A nil
// Publisher is valid and publishes nothing, so callers never branch on
// whether Redis is configured.
type Publisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewPublisher(redisURL string, log zerolog.Logger) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Publisher{rdb: redis.NewClient(opts), log: log}, nil
}

// TicketEvent publishes best-effort: a broken Redis must never fail the
// request that triggered the event.
func (p *Publisher) TicketEvent(ctx context.Context, kind string, actorID string, t *models.Ticket) {
	if p == nil {
		return
	}
	data, err := json.Marshal(Event{
		Kind:     kind,
		TicketID: t.ID,
		Title:    t.Title,
		Status:   t.Status,
		ActorID:  actorID,
	})
	if err != nil {
		p.log.Warn().Err(err).Msg("marshal ticket event")
		return
	}
	if err := p.rdb.Publish(ctx, Channel, data).Err(); err != nil {
		p.log.Warn().Err(err).Str("kind", kind).Str("ticket", t.ID).Msg("publish ticket event")
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.rdb.Close()
}
