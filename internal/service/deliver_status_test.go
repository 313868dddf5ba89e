package service

import (
	"testing"

	"github.com/deliver-center/internal/constants"
)

func TestIsTransitionAllowed(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{constants.DeliverStatusPending, constants.DeliverStatusShipped, true},
		{constants.DeliverStatusPending, constants.DeliverStatusReceived, false},
		{constants.DeliverStatusPending, constants.DeliverStatusRejected, false},
		{constants.DeliverStatusShipped, constants.DeliverStatusReceived, true},
		{constants.DeliverStatusShipped, constants.DeliverStatusRejected, true},
		{constants.DeliverStatusShipped, constants.DeliverStatusPending, false},
		{constants.DeliverStatusReceived, constants.DeliverStatusShipped, false},
		{constants.DeliverStatusRejected, constants.DeliverStatusShipped, false},
		{"unknown", constants.DeliverStatusShipped, false},
	}
	for _, tc := range cases {
		if got := isTransitionAllowed(tc.from, tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestIsFinalStatus(t *testing.T) {
	if IsFinalStatus(constants.DeliverStatusPending) || IsFinalStatus(constants.DeliverStatusShipped) {
		t.Fatalf("pending/shipped must not be final")
	}
	if !IsFinalStatus(constants.DeliverStatusReceived) || !IsFinalStatus(constants.DeliverStatusRejected) {
		t.Fatalf("received/rejected must be final")
	}
}

func TestNextStatuses(t *testing.T) {
	nexts := NextStatuses(constants.DeliverStatusShipped)
	if len(nexts) != 2 {
		t.Fatalf("expected 2 next statuses from shipped, got %v", nexts)
	}
	if NextStatuses(constants.DeliverStatusReceived) != nil {
		t.Fatalf("final status should have no next statuses")
	}
}
