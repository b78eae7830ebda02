package domain

import (
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"
)

// DeploymentPlan is the declarative set of deployment units read from deploy.yaml
type DeploymentPlan struct {
	// Record names the unit whose deployment produces deployment-info.json
	Record string           `yaml:"record"`
	Units  map[string]*Unit `yaml:"units"`
}

// Unit is a single contract deployment within the plan
type Unit struct {
	Contract string   `yaml:"contract"`
	Deps     []string `yaml:"deps,omitempty"`
	Args     []Arg    `yaml:"args,omitempty"`
	Verify   bool     `yaml:"verify,omitempty"`
}

// Arg is a constructor argument. Exactly one source must be set.
type Arg struct {
	// Value is a literal converted according to the constructor input type
	Value *string `yaml:"value,omitempty"`
	// Ref is the name of a unit whose cached address is used
	Ref string `yaml:"ref,omitempty"`
	// Optional makes a missing Ref resolve to the zero address
	Optional bool `yaml:"optional,omitempty"`
	// Deployer uses the deployer address
	Deployer bool `yaml:"deployer,omitempty"`
	// PlatformWallet uses PLATFORM_WALLET, falling back to the deployer
	PlatformWallet bool `yaml:"platform_wallet,omitempty"`
}

// Kind returns a short description of the argument source
func (a Arg) Kind() string {
	switch {
	case a.Value != nil:
		return "value"
	case a.Ref != "":
		return "ref"
	case a.Deployer:
		return "deployer"
	case a.PlatformWallet:
		return "platform_wallet"
	default:
		return "none"
	}
}

func (a Arg) sources() int {
	n := 0
	if a.Value != nil {
		n++
	}
	if a.Ref != "" {
		n++
	}
	if a.Deployer {
		n++
	}
	if a.PlatformWallet {
		n++
	}
	return n
}

// PlanStep is one unit in execution order
type PlanStep struct {
	Name string
	Unit *Unit
}

// Validate checks the plan for structural errors
func (p *DeploymentPlan) Validate() error {
	if len(p.Units) == 0 {
		return fmt.Errorf("%w: at least one unit is required", ErrInvalidPlan)
	}

	if p.Record != "" {
		if _, ok := p.Units[p.Record]; !ok {
			return fmt.Errorf("%w: record unit '%s' is not defined", ErrInvalidPlan, p.Record)
		}
	}

	for _, name := range p.names() {
		unit := p.Units[name]
		if unit == nil {
			return fmt.Errorf("%w: unit '%s' is empty", ErrInvalidPlan, name)
		}
		if unit.Contract == "" {
			return fmt.Errorf("%w: unit '%s' must specify a contract", ErrInvalidPlan, name)
		}

		for _, dep := range unit.Deps {
			if dep == name {
				return fmt.Errorf("%w: unit '%s' cannot depend on itself", ErrInvalidPlan, name)
			}
			if _, exists := p.Units[dep]; !exists {
				return fmt.Errorf("%w: unit '%s' depends on non-existent unit '%s'", ErrInvalidPlan, name, dep)
			}
		}

		for i, arg := range unit.Args {
			if arg.sources() != 1 {
				return fmt.Errorf("%w: unit '%s' arg %d must set exactly one of value, ref, deployer, platform_wallet",
					ErrInvalidPlan, name, i)
			}
			if arg.Optional && arg.Ref == "" {
				return fmt.Errorf("%w: unit '%s' arg %d: optional only applies to ref", ErrInvalidPlan, name, i)
			}
		}
	}

	return nil
}

// Order returns the units in dependency order. Units that become ready at
// the same time are taken in lexical order so the result is deterministic.
func (p *DeploymentPlan) Order() ([]PlanStep, error) {
	inDegree := make(map[string]int, len(p.Units))
	dependents := make(map[string][]string)

	for name, unit := range p.Units {
		inDegree[name] += 0
		for _, dep := range unit.Deps {
			if _, exists := p.Units[dep]; !exists {
				return nil, fmt.Errorf("%w: unit '%s' depends on non-existent unit '%s'", ErrInvalidPlan, name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	steps := make([]PlanStep, 0, len(p.Units))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		steps = append(steps, PlanStep{Name: current, Unit: p.Units[current]})

		for _, dependent := range dependents[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
				sort.Strings(queue)
			}
		}
	}

	if len(steps) != len(p.Units) {
		var cycle []string
		for name, degree := range inDegree {
			if degree > 0 {
				cycle = append(cycle, name)
			}
		}
		sort.Strings(cycle)
		return nil, fmt.Errorf("%w: circular dependency detected involving units: %v", ErrInvalidPlan, cycle)
	}

	return steps, nil
}

// Select returns the ordered steps needed to deploy the named units,
// including their transitive dependencies. An empty selection means all units.
func (p *DeploymentPlan) Select(names []string) ([]PlanStep, error) {
	steps, err := p.Order()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return steps, nil
	}

	wanted := make(map[string]bool)
	var visit func(name string) error
	visit = func(name string) error {
		if wanted[name] {
			return nil
		}
		unit, ok := p.Units[name]
		if !ok {
			if matches := fuzzy.Find(name, p.names()); len(matches) > 0 {
				return fmt.Errorf("%w: unit '%s', did you mean '%s'?", ErrNotFound, name, matches[0].Str)
			}
			return fmt.Errorf("%w: unit '%s'", ErrNotFound, name)
		}
		wanted[name] = true
		for _, dep := range unit.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	selected := make([]PlanStep, 0, len(wanted))
	for _, step := range steps {
		if wanted[step.Name] {
			selected = append(selected, step)
		}
	}
	return selected, nil
}

func (p *DeploymentPlan) names() []string {
	names := make([]string, 0, len(p.Units))
	for name := range p.Units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
