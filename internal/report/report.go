// Package report holds the build report data model and its on-disk store.
//
// A Report is append-only: every wrapped toolchain invocation adds the files
// it observed and one stage linking them, and nothing is ever rewritten.
package report

import (
	"encoding/json"
	"fmt"
)

// FileKind tags a file record.
type FileKind string

const (
	Source     FileKind = "Source"
	Object     FileKind = "Object"
	Library    FileKind = "Library"
	Executable FileKind = "Executable"
)

// Valid reports whether k is one of the known file kinds.
func (k FileKind) Valid() bool {
	switch k {
	case Source, Object, Library, Executable:
		return true
	}
	return false
}

func (k *FileKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !FileKind(s).Valid() {
		return fmt.Errorf("unknown file type %q", s)
	}
	*k = FileKind(s)
	return nil
}

// StageKind tags a stage record.
type StageKind string

const (
	Compilation StageKind = "Compilation"
	Link        StageKind = "Link"
	Archiving   StageKind = "Archiving"
)

// StageKinds lists every stage kind in display order.
var StageKinds = []StageKind{Compilation, Link, Archiving}

// Valid reports whether k is one of the known stage kinds.
func (k StageKind) Valid() bool {
	switch k {
	case Compilation, Link, Archiving:
		return true
	}
	return false
}

func (k *StageKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !StageKind(s).Valid() {
		return fmt.Errorf("unknown stage type %q", s)
	}
	*k = StageKind(s)
	return nil
}

// File is one artifact observed as the input or output of a stage.
// Files are never deduplicated by name.
type File struct {
	ID   string   `json:"id"`
	Kind FileKind `json:"type"`
	Name string   `json:"name"`
}

// Stage is one recorded build action. Duration is in milliseconds.
type Stage struct {
	ID       string    `json:"id"`
	Inputs   []string  `json:"inputs"`
	Outputs  []string  `json:"outputs"`
	Kind     StageKind `json:"type"`
	Duration int64     `json:"duration"`
}

// Report is the accumulated history of one build.
type Report struct {
	Files  []File  `json:"files"`
	Stages []Stage `json:"stages"`
}

// New returns an empty report.
func New() *Report {
	return &Report{Files: []File{}, Stages: []Stage{}}
}

// Append adds a stage together with the files it references.
func (r *Report) Append(stage Stage, files ...File) {
	if stage.Inputs == nil {
		stage.Inputs = []string{}
	}
	if stage.Outputs == nil {
		stage.Outputs = []string{}
	}
	r.Stages = append(r.Stages, stage)
	r.Files = append(r.Files, files...)
}

// Extend appends every file and stage of other, preserving order.
func (r *Report) Extend(other *Report) {
	if other == nil {
		return
	}
	r.Files = append(r.Files, other.Files...)
	r.Stages = append(r.Stages, other.Stages...)
}

// FileIndex maps file ids to their records.
func (r *Report) FileIndex() map[string]File {
	idx := make(map[string]File, len(r.Files))
	for _, f := range r.Files {
		idx[f.ID] = f
	}
	return idx
}

// normalize replaces nil slices so they serialize as [] rather than null.
func (r *Report) normalize() {
	if r.Files == nil {
		r.Files = []File{}
	}
	if r.Stages == nil {
		r.Stages = []Stage{}
	}
	for i := range r.Stages {
		if r.Stages[i].Inputs == nil {
			r.Stages[i].Inputs = []string{}
		}
		if r.Stages[i].Outputs == nil {
			r.Stages[i].Outputs = []string{}
		}
	}
}
