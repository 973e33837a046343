package redis

import (
	"context"
	"io"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"

	"seenjeem-admin/internal/domain"
)

func TestActivityRelayDeliversPublished(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	relay := NewActivityRelay(newClient(mr), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan domain.Activity, 1)
	ready := make(chan struct{})
	go func() {
		_ = relay.Run(ctx, ready, func(a domain.Activity) { got <- a })
	}()

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription not ready")
	}

	relay.Publish(ctx, domain.Activity{Kind: "question", Action: "created", EntityID: "q1"})

	select {
	case a := <-got:
		if a.EntityID != "q1" || a.Action != "created" {
			t.Fatalf("unexpected activity %+v", a)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("activity not delivered")
	}
}
