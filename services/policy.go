package services

import (
	"CareClinic/models"
	"fmt"
	"sort"
	"strings"
)

const (
	PolicyOpen   = "open"
	PolicyStrict = "strict"
)

// TransitionPolicy decides which appointment status changes are permitted.
// A policy without edges permits everything.
type TransitionPolicy struct {
	name  string
	edges map[string]map[string]bool
}

var strictEdges = map[string][]string{
	models.StatusScheduled:   {models.StatusConfirmed, models.StatusCancelled, models.StatusRescheduled},
	models.StatusConfirmed:   {models.StatusCompleted, models.StatusCancelled, models.StatusRescheduled},
	models.StatusRescheduled: {models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted, models.StatusRescheduled},
}

func OpenPolicy() *TransitionPolicy {
	return &TransitionPolicy{name: PolicyOpen}
}

func StrictPolicy() *TransitionPolicy {
	return newPolicy(PolicyStrict, strictEdges)
}

func newPolicy(name string, graph map[string][]string) *TransitionPolicy {
	edges := make(map[string]map[string]bool, len(graph))
	for from, targets := range graph {
		edges[from] = make(map[string]bool, len(targets))
		for _, to := range targets {
			edges[from][to] = true
		}
	}
	return &TransitionPolicy{name: name, edges: edges}
}

// ParseTransitionPolicy accepts "open", "strict" or an edge list such as
// "scheduled:confirmed|cancelled;confirmed:completed". Statuses missing from
// an edge list are terminal.
func ParseTransitionPolicy(value string) (*TransitionPolicy, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", PolicyOpen:
		return OpenPolicy(), nil
	case PolicyStrict:
		return StrictPolicy(), nil
	}

	graph := map[string][]string{}
	for _, clause := range strings.Split(value, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		from, targets, ok := strings.Cut(clause, ":")
		from = strings.TrimSpace(from)
		if !ok || !models.IsAppointmentStatus(from) {
			return nil, fmt.Errorf("invalid transition clause %q", clause)
		}
		for _, to := range strings.Split(targets, "|") {
			to = strings.TrimSpace(to)
			if !models.IsAppointmentStatus(to) {
				return nil, fmt.Errorf("unknown status %q in clause %q", to, clause)
			}
			graph[from] = append(graph[from], to)
		}
	}
	if len(graph) == 0 {
		return nil, fmt.Errorf("transition policy %q has no edges", value)
	}
	return newPolicy("custom", graph), nil
}

func (p *TransitionPolicy) Name() string {
	return p.name
}

func (p *TransitionPolicy) Allows(from, to string) bool {
	if p == nil || p.edges == nil {
		return true
	}
	return p.edges[from][to]
}

// Targets lists the statuses reachable from the given one, sorted.
func (p *TransitionPolicy) Targets(from string) []string {
	if p == nil || p.edges == nil {
		return append([]string(nil), models.AppointmentStatuses...)
	}
	targets := make([]string, 0, len(p.edges[from]))
	for to := range p.edges[from] {
		targets = append(targets, to)
	}
	sort.Strings(targets)
	return targets
}
