package transform

import "fmt"

// Step is one named, pure table operation.
type Step struct {
	Name string
	Fn   func(Table) (Table, error)
}

// Pipeline applies steps in order. A step receiving an empty table is a
// contract violation: validation belongs before the pipeline ever sees
// vacuous input, and transformations on nothing hide upstream bugs.
type Pipeline struct {
	steps []Step
}

// NewPipeline builds a pipeline from the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes every step sequentially and fails on the first error,
// naming the offending step.
func (p *Pipeline) Run(t Table) (Table, error) {
	for _, step := range p.steps {
		if len(t.Rows) == 0 {
			return t, fmt.Errorf("step %q: input table is empty", step.Name)
		}
		var err error
		t, err = step.Fn(t)
		if err != nil {
			return t, fmt.Errorf("step %q: %w", step.Name, err)
		}
	}
	return t, nil
}
