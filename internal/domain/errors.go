package domain

import "errors"

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrUpstreamNotFound = errors.New("upstream returned no data")
)
