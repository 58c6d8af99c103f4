package services

import (
	"CareClinic/models"
	"reflect"
	"testing"
)

func TestOpenPolicy_AllowsEverything(t *testing.T) {
	p := OpenPolicy()
	for _, from := range models.AppointmentStatuses {
		for _, to := range models.AppointmentStatuses {
			if !p.Allows(from, to) {
				t.Errorf("Expected open policy to allow %s -> %s", from, to)
			}
		}
	}
	if got := p.Targets(models.StatusCancelled); len(got) != len(models.AppointmentStatuses) {
		t.Errorf("Expected every status as a target, got %v", got)
	}
}

func TestStrictPolicy(t *testing.T) {
	p := StrictPolicy()

	tests := []struct {
		from, to string
		want     bool
	}{
		{models.StatusScheduled, models.StatusConfirmed, true},
		{models.StatusScheduled, models.StatusCompleted, false},
		{models.StatusConfirmed, models.StatusCompleted, true},
		{models.StatusRescheduled, models.StatusRescheduled, true},
		{models.StatusCancelled, models.StatusScheduled, false},
		{models.StatusCompleted, models.StatusCancelled, false},
	}
	for _, tt := range tests {
		if got := p.Allows(tt.from, tt.to); got != tt.want {
			t.Errorf("Allows(%s, %s): expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}

	want := []string{models.StatusCancelled, models.StatusConfirmed, models.StatusRescheduled}
	if got := p.Targets(models.StatusScheduled); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected targets %v, got %v", want, got)
	}
	if got := p.Targets(models.StatusCompleted); len(got) != 0 {
		t.Errorf("Expected completed to be terminal, got %v", got)
	}
}

func TestParseTransitionPolicy(t *testing.T) {
	for _, value := range []string{"", "open", " OPEN "} {
		p, err := ParseTransitionPolicy(value)
		if err != nil || p.Name() != PolicyOpen {
			t.Errorf("Expected open policy for %q, got %v, %v", value, p, err)
		}
	}

	p, err := ParseTransitionPolicy("Strict")
	if err != nil || p.Name() != PolicyStrict {
		t.Fatalf("Expected strict policy, got %v, %v", p, err)
	}

	p, err = ParseTransitionPolicy("scheduled:confirmed|cancelled; confirmed:completed")
	if err != nil {
		t.Fatalf("Expected custom policy to parse, got: %v", err)
	}
	if p.Name() != "custom" {
		t.Errorf("Expected name custom, got %s", p.Name())
	}
	if !p.Allows(models.StatusScheduled, models.StatusCancelled) {
		t.Error("Expected scheduled -> cancelled to be allowed")
	}
	if p.Allows(models.StatusConfirmed, models.StatusCancelled) {
		t.Error("Expected confirmed -> cancelled to be refused")
	}
	if p.Allows(models.StatusCancelled, models.StatusScheduled) {
		t.Error("Expected unlisted statuses to be terminal")
	}

	for _, bad := range []string{"scheduled", "unknown:confirmed", "scheduled:archived", ";;"} {
		if _, err := ParseTransitionPolicy(bad); err == nil {
			t.Errorf("Expected an error for %q", bad)
		}
	}
}
