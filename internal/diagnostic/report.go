package diagnostic

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"mapmerge/internal/mapping"
)

// Stage is one step of a run together with the mappings it produced.
type Stage struct {
	Name        string        `yaml:"name"`
	Stats       mapping.Stats `yaml:"stats"`
	Fingerprint string        `yaml:"fingerprint"`
}

// Report summarizes a pipeline run.
type Report struct {
	UseCase  string        `yaml:"useCase"`
	Started  time.Time     `yaml:"started"`
	Duration time.Duration `yaml:"duration"`
	Stages   []Stage       `yaml:"stages"`
	Outputs  []string      `yaml:"outputs,omitempty"`
	Warnings []Diagnostic  `yaml:"warnings,omitempty"`
	Infos    []Diagnostic  `yaml:"infos,omitempty"`
}

// NewReport starts a report for useCase.
func NewReport(useCase string) *Report {
	return &Report{UseCase: useCase, Started: time.Now().UTC()}
}

// AddStage records the state of set after the named stage.
func (r *Report) AddStage(name string, set *mapping.Set) {
	r.Stages = append(r.Stages, Stage{
		Name:        name,
		Stats:       set.Stats(),
		Fingerprint: fmt.Sprintf("%016x", set.Fingerprint()),
	})
}

// Finish stamps the duration and copies the non-fatal findings of d.
func (r *Report) Finish(d *Diagnostics) {
	r.Duration = time.Since(r.Started)

	if d == nil {
		return
	}

	d.Sort()

	d.mu.Lock()
	defer d.mu.Unlock()

	r.Warnings = append(r.Warnings, d.Warnings...)
	r.Infos = append(r.Infos, d.Infos...)
}

// Last returns the most recent stage.
func (r *Report) Last() (Stage, bool) {
	if len(r.Stages) == 0 {
		return Stage{}, false
	}

	return r.Stages[len(r.Stages)-1], true
}

// Marshal renders the report as YAML.
func (r *Report) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}
