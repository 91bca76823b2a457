package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"go.uber.org/zap"
)

// StreamIngestorConfig configures a websocket candle stream.
type StreamIngestorConfig struct {
	// URL is the websocket endpoint, e.g. ws://localhost:8080/candles
	URL string `yaml:"url" json:"url" validate:"required,url"`
	// Exchange fills in events that do not carry one
	Exchange string `yaml:"exchange" json:"exchange"`
	// Instrument fills in events that do not carry one
	Instrument string `yaml:"instrument" json:"instrument"`
	// Subscribe is sent once after connecting, when set
	Subscribe json.RawMessage `yaml:"subscribe" json:"subscribe,omitempty"`
	// ReadTimeout bounds the silence between two frames. Zero disables it.
	ReadTimeout time.Duration `yaml:"read_timeout" json:"read_timeout"`
}

// StreamIngestor reads JSON candles from a websocket and pushes them into a
// live feed producer. The producer is closed when Run returns, which the
// consuming loop observes as Unhealthy.
type StreamIngestor struct {
	config   StreamIngestorConfig
	producer *Producer[types.MarketEvent]
	dialer   *websocket.Dialer
	logger   *logger.Logger

	OnEvent       func(types.MarketEvent)
	OnDecodeError func(error)
}

// NewStreamIngestor creates an ingestor feeding producer.
func NewStreamIngestor(config StreamIngestorConfig, producer *Producer[types.MarketEvent], log *logger.Logger) (*StreamIngestor, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid stream ingestor config", err)
	}

	if producer == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "producer is required")
	}

	return &StreamIngestor{
		config:   config,
		producer: producer,
		dialer:   websocket.DefaultDialer,
		logger:   log,
	}, nil
}

// Run connects and ingests until the context is cancelled or the connection
// fails. It returns nil on cancellation.
func (s *StreamIngestor) Run(ctx context.Context) error {
	defer s.producer.Close()

	conn, _, err := s.dialer.DialContext(ctx, s.config.URL, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStreamConnection, err, "failed to connect to %s", s.config.URL)
	}
	defer conn.Close()

	s.logger.Info("Connected to market stream", zap.String("url", s.config.URL))

	// unblock ReadMessage on cancellation
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	if len(s.config.Subscribe) > 0 {
		if err := conn.WriteMessage(websocket.TextMessage, s.config.Subscribe); err != nil {
			return errors.Wrap(errors.ErrCodeStreamConnection, "failed to send subscription", err)
		}
	}

	if s.config.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		})
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("Market stream stopped", zap.String("url", s.config.URL))

				return nil
			}

			return errors.Wrap(errors.ErrCodeStreamConnection, "market stream read failed", err)
		}

		if s.config.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}

		event, err := s.decode(message)
		if err != nil {
			s.logger.Warn("Dropping malformed market event", zap.Error(err))

			if s.OnDecodeError != nil {
				s.OnDecodeError(err)
			}

			continue
		}

		if !s.producer.Send(event) {
			return nil
		}

		if s.OnEvent != nil {
			s.OnEvent(event)
		}
	}
}

func (s *StreamIngestor) decode(message []byte) (types.MarketEvent, error) {
	var event types.MarketEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return types.MarketEvent{}, errors.Wrap(errors.ErrCodeStreamDecode, "failed to decode market event", err)
	}

	if event.Exchange == "" {
		event.Exchange = s.config.Exchange
	}

	if event.Instrument == "" {
		event.Instrument = s.config.Instrument
	}

	if err := event.Validate(); err != nil {
		return types.MarketEvent{}, errors.Wrap(errors.ErrCodeStreamDecode, "received invalid market event", err)
	}

	return event, nil
}
