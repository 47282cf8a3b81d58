package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = New("sentinel")

func TestHintsSurviveWrapping(t *testing.T) {
	err := WithHint(errSentinel, "check the input file")
	wrapped := Wrap(err, "load")

	assert.True(t, Is(wrapped, errSentinel))
	assert.Equal(t, "check the input file", FlattenHints(wrapped))
	assert.Contains(t, wrapped.Error(), "load: sentinel")
}

func TestMarkKeepsIdentity(t *testing.T) {
	base := Newf("decode: %s", "bad")
	marked := Mark(base, errSentinel)

	assert.True(t, Is(marked, errSentinel))
	assert.Equal(t, "decode: bad", marked.Error())
}
