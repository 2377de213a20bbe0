package report

import (
	"sort"
	"strings"
)

// KindStats aggregates the stages of one kind.
type KindStats struct {
	Kind    StageKind `json:"kind"`
	Count   int       `json:"count"`
	TotalMs int64     `json:"total_ms"`
	MaxMs   int64     `json:"max_ms"`
}

// StageSummary is a stage with its file names resolved.
type StageSummary struct {
	ID         string    `json:"id"`
	Kind       StageKind `json:"kind"`
	DurationMs int64     `json:"duration_ms"`
	Inputs     []string  `json:"inputs"`
	Outputs    []string  `json:"outputs"`
}

// Label names the stage by its outputs, or its inputs when it has none.
func (s StageSummary) Label() string {
	if len(s.Outputs) > 0 {
		return strings.Join(s.Outputs, ", ")
	}
	if len(s.Inputs) > 0 {
		return strings.Join(s.Inputs, ", ")
	}
	return s.ID
}

// Summary is a digest of a report.
type Summary struct {
	Files   int            `json:"files"`
	Stages  int            `json:"stages"`
	TotalMs int64          `json:"total_ms"`
	ByKind  []KindStats    `json:"by_kind"`
	Slowest []StageSummary `json:"slowest"`
}

// Summarize aggregates r by stage kind and lists its top slowest stages.
// A negative top lists every stage.
func Summarize(r *Report, top int) Summary {
	sum := Summary{Files: len(r.Files), Stages: len(r.Stages)}
	byKind := make(map[StageKind]*KindStats, len(StageKinds))
	for _, k := range StageKinds {
		byKind[k] = &KindStats{Kind: k}
	}
	for _, s := range r.Stages {
		ks, ok := byKind[s.Kind]
		if !ok {
			continue
		}
		ks.Count++
		ks.TotalMs += s.Duration
		ks.MaxMs = max(ks.MaxMs, s.Duration)
		sum.TotalMs += s.Duration
	}
	for _, k := range StageKinds {
		sum.ByKind = append(sum.ByKind, *byKind[k])
	}

	stages := Describe(r)
	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].DurationMs > stages[j].DurationMs
	})
	if top >= 0 && top < len(stages) {
		stages = stages[:top]
	}
	sum.Slowest = stages
	return sum
}

// Describe resolves the file names of every stage, in report order.
func Describe(r *Report) []StageSummary {
	files := r.FileIndex()
	names := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if f, ok := files[id]; ok {
				out = append(out, f.Name)
			}
		}
		return out
	}
	out := make([]StageSummary, 0, len(r.Stages))
	for _, s := range r.Stages {
		out = append(out, StageSummary{
			ID:         s.ID,
			Kind:       s.Kind,
			DurationMs: s.Duration,
			Inputs:     names(s.Inputs),
			Outputs:    names(s.Outputs),
		})
	}
	return out
}
