package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EnvelopeType tags a pushed message.
type EnvelopeType string

const (
	EnvelopeQuote EnvelopeType = "quote"
	EnvelopeNews  EnvelopeType = "news"
)

// Envelope is one server-to-client push. Build it with QuoteEnvelope or
// NewsEnvelope; it is never mutated after construction. Only the payload
// matching Type is set.
type Envelope struct {
	Type  EnvelopeType
	Quote *QuoteSnapshot
	News  []NewsItem
}

func QuoteEnvelope(q *QuoteSnapshot) Envelope {
	return Envelope{Type: EnvelopeQuote, Quote: q}
}

func NewsEnvelope(items []NewsItem) Envelope {
	if items == nil {
		items = []NewsItem{}
	}
	return Envelope{Type: EnvelopeNews, News: items}
}

// MarshalJSON renders the wire shape {"type": ..., "data": ...}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	wire := struct {
		Type EnvelopeType `json:"type"`
		Data any          `json:"data"`
	}{Type: e.Type}

	switch e.Type {
	case EnvelopeQuote:
		if e.Quote == nil {
			return nil, errors.New("quote envelope without a quote")
		}
		wire.Data = e.Quote
	case EnvelopeNews:
		news := e.News
		if news == nil {
			news = []NewsItem{}
		}
		wire.Data = news
	default:
		return nil, fmt.Errorf("unknown envelope type %q", e.Type)
	}
	return json.Marshal(wire)
}

// Encode renders the envelope as a JSON text frame.
func (e Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s envelope: %w", e.Type, err)
	}
	return data, nil
}

// ClientMessage is an inbound client-to-server message.
type ClientMessage struct {
	Action string `json:"action"`
	Symbol string `json:"symbol"`
}

const ActionSubscribe = "subscribe"
