package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RatingActionTracker/internal/domain"
)

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	var gotPath, gotText, gotMode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotText = r.PostForm.Get("text")
		gotMode = r.PostForm.Get("parse_mode")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier("token", "42")
	n.apiBase = server.URL

	require.NoError(t, n.PublishDigest(context.Background(), "▼ <b>BB</b>"))
	assert.Equal(t, "/bottoken/sendMessage", gotPath)
	assert.Equal(t, "▼ <b>BB</b>", gotText)
	assert.Equal(t, "HTML", gotMode)
}

func TestPublishDigestErrors(t *testing.T) {
	t.Parallel()

	assert.Error(t, NewNotifier("", "").PublishDigest(context.Background(), "x"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier("token", "42")
	n.apiBase = server.URL
	assert.ErrorContains(t, n.PublishDigest(context.Background(), "x"), "400")
}

func TestMarker(t *testing.T) {
	t.Parallel()

	m := Marker{}
	assert.Equal(t, "<b>BB+</b>", m.Mark("BB+", domain.VerdictUpgrade))
	assert.Equal(t, "A &amp; B", m.Plain("A & B"))
}
