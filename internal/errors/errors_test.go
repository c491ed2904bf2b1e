package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationError(t *testing.T) {
	err := New("something broke")
	assert.Equal(t, "something broke", err.Error())
	assert.Equal(t, Unknown, KindOf(err))

	wrapped := Wrap(err, "loading page")
	assert.Equal(t, "loading page: something broke", wrapped.Error())
	assert.Equal(t, err, Unwrap(wrapped))

	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestNavigationError(t *testing.T) {
	err := NewNavigationError("route not registered", "reports", RouteNotFound, nil)
	assert.Equal(t, "route not registered: reports", err.Error())
	assert.Equal(t, "reports", err.Path())
	assert.True(t, IsRouteNotFound(err))
	assert.False(t, IsRouteNotFound(New("plain")))

	rendered := NewNavigationError("render failed", "posts", RenderFailed, fmt.Errorf("boom"))
	assert.False(t, IsRouteNotFound(rendered))
	assert.Equal(t, RenderFailed, KindOf(rendered))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("field is required", "title", MissingField, nil)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "title", err.Field())
	assert.Equal(t, "field is required: title", err.Error())
	assert.Equal(t, "field is required: title", UserMessage(err))
}

func TestRemoteError(t *testing.T) {
	err := NewRemoteError("delete", "post not found", NotFound, nil)
	assert.True(t, IsRemote(err))
	assert.Equal(t, "delete", err.Operation())
	assert.Equal(t, "post not found", err.Message())
	assert.Contains(t, err.Error(), "operation=delete")

	// Empty server message falls back to a generic one.
	blank := NewRemoteError("update", "", RemoteFailed, nil)
	assert.Equal(t, "request failed", blank.Message())
}

func TestAuthError(t *testing.T) {
	assert.True(t, IsUnauthorized(ErrUnauthorized))
	assert.True(t, IsUnauthorized(Wrap(ErrUnauthorized, "listing posts")))
	assert.False(t, IsUnauthorized(New("plain")))
}

func TestStaleError(t *testing.T) {
	assert.True(t, IsStale(ErrStaleResponse))
	assert.False(t, IsStale(New("fresh")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "request failed", UserMessage(fmt.Errorf("dial tcp: timeout")))
	assert.Equal(t, "post already published", UserMessage(NewRemoteError("publish", "post already published", RemoteFailed, nil)))
	assert.Equal(t, "authentication required", UserMessage(ErrUnauthorized))
}
