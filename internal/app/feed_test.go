package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
)

func TestFeedRecentIsBounded(t *testing.T) {
	f := app.NewFeed()
	for i := 0; i < 25; i++ {
		f.Publish(domain.Activity{Kind: "question", EntityID: fmt.Sprint(i)})
	}
	recent := f.Recent()
	require.Len(t, recent, 20)
	require.Equal(t, "5", recent[0].EntityID)
	require.Equal(t, "24", recent[19].EntityID)
}

func TestFeedSlowSubscriberKeepsNewest(t *testing.T) {
	f := app.NewFeed()
	ch, cancel := f.Subscribe()
	require.Equal(t, 1, f.Subscribers())

	for i := 0; i < 12; i++ {
		f.Publish(domain.Activity{EntityID: fmt.Sprint(i)})
	}
	var got []string
	for len(ch) > 0 {
		got = append(got, (<-ch).EntityID)
	}
	require.Len(t, got, 8)
	require.Equal(t, "4", got[0])
	require.Equal(t, "11", got[7])

	cancel()
	cancel()
	require.Zero(t, f.Subscribers())
	_, open := <-ch
	require.False(t, open)
}

func TestFeedListener(t *testing.T) {
	f := app.NewFeed()
	f.Listener()(context.Background(), domain.Activity{Kind: "import"})
	require.Len(t, f.Recent(), 1)
}
