package idempotency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyEncodesMessageCoordinates(t *testing.T) {
	s := &Store{}
	assert.Equal(t, "store-api:idem:order-events:1:42", s.Key("order-events", 1, 42))
	assert.NotEqual(t, s.Key("order-events", 0, 42), s.Key("order-events", 1, 42))
	assert.NotEqual(t, s.Key("order-events", 1, 42), s.Key("payment-canceled-events", 1, 42))
}
