package domain

import (
	"strings"
	"testing"
	"time"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		daysRemaining int
		want          ReminderTier
	}{
		{daysRemaining: 8, want: TierNone},
		{daysRemaining: 7, want: TierSevenDay},
		{daysRemaining: 4, want: TierSevenDay},
		{daysRemaining: 3, want: TierThreeDay},
		{daysRemaining: 2, want: TierThreeDay},
		{daysRemaining: 1, want: TierOneDay},
		{daysRemaining: 0, want: TierOneDay},
	}

	for _, tt := range tests {
		got := TierFor(tt.daysRemaining)
		if got != tt.want {
			t.Errorf("TierFor(%d) = %q, want %q", tt.daysRemaining, got, tt.want)
		}
	}
}

func TestDaysRemainingRoundsPartialDaysUp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate time.Time
		want    int
	}{
		{name: "two hours left", endDate: now.Add(2 * time.Hour), want: 1},
		{name: "exactly three days", endDate: now.Add(72 * time.Hour), want: 3},
		{name: "three days and a minute", endDate: now.Add(72*time.Hour + time.Minute), want: 4},
		{name: "already past", endDate: now.Add(-time.Hour), want: 0},
		{name: "exactly now", endDate: now, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysRemaining(now, tt.endDate)
			if got != tt.want {
				t.Fatalf("DaysRemaining = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReminderContentEscalatesUrgency(t *testing.T) {
	endDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	subject, body := ReminderContent(TierOneDay, 1, endDate)
	if !strings.Contains(subject, "Final notice") {
		t.Errorf("one-day subject should carry final-notice urgency, got %q", subject)
	}
	if !strings.Contains(body, "June 10, 2025") {
		t.Errorf("body should include the formatted expiry date, got %q", body)
	}

	subject, _ = ReminderContent(TierThreeDay, 3, endDate)
	if !strings.Contains(subject, "3 days") {
		t.Errorf("three-day subject should state days remaining, got %q", subject)
	}

	subject, _ = ReminderContent(TierSevenDay, 7, endDate)
	if !strings.Contains(subject, "7 days") {
		t.Errorf("seven-day subject should state days remaining, got %q", subject)
	}
}
