package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/slate-lang/slate/internal/compiler"
	"github.com/slate-lang/slate/internal/ir"
)

// Scenario defines a conformance test scenario: a program definition,
// a goal, and an optional environment. Running the scenario lists the
// clauses that apply to the goal; the listing is compared against a
// golden file.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the path to the CUE program definition, relative to the
	// scenario file location.
	Program string `yaml:"program"`

	// Goal is the goal to collect clauses for.
	Goal GoalSpec `yaml:"goal"`

	// Environment lists hypotheses in scope, in order.
	Environment []EnvSpec `yaml:"environment,omitempty"`
}

// GoalSpec selects a goal by kind. Exactly one field must be set.
// Bound fields ("Type: Trait") and type fields use the program
// definition's type-expression syntax; goals are closed terms, so
// parameter names do not resolve here.
type GoalSpec struct {
	// Implemented is a bound expression, e.g. "u32: Clone".
	Implemented string `yaml:"implemented,omitempty"`

	// WellFormedTrait is a bound expression for WellFormed(T: Trait).
	WellFormedTrait string `yaml:"wf_trait,omitempty"`

	// WellFormedType is a type expression for WellFormed(T).
	WellFormedType string `yaml:"wf_type,omitempty"`

	// IsLocal is a type expression for IsLocal(T).
	IsLocal string `yaml:"is_local,omitempty"`

	// IsUpstream is a type expression for IsUpstream(T).
	IsUpstream string `yaml:"is_upstream,omitempty"`
}

// EnvSpec is one environment hypothesis. Exactly one of Trait or Type
// must be set; Params names the hypothesis's own bound variables.
type EnvSpec struct {
	// Params are the hypothesis's universally quantified parameters.
	Params []string `yaml:"params,omitempty"`

	// Trait is a bound expression, e.g. "MyList<T>: Clone", producing a
	// FromEnv trait hypothesis.
	Trait string `yaml:"trait,omitempty"`

	// Type is a type expression producing a FromEnv type hypothesis.
	Type string `yaml:"type,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. The program path
// is resolved relative to the scenario file. Returns an error if the
// file is malformed, contains unknown fields (typos), or is missing
// required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "goal:" vs "goals:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Program != "" && !filepath.IsAbs(scenario.Program) {
		scenario.Program = filepath.Join(filepath.Dir(path), scenario.Program)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// GoalFile is a standalone goal definition: the same goal and
// environment sections as a scenario, without a program binding. The
// CLI pairs it with a program loaded separately.
type GoalFile struct {
	Goal        GoalSpec  `yaml:"goal"`
	Environment []EnvSpec `yaml:"environment,omitempty"`
}

// LoadGoalFile reads and parses a standalone goal YAML file.
func LoadGoalFile(path string) (*GoalFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read goal file: %w", err)
	}

	var goalFile GoalFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&goalFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateGoalSpec(&goalFile.Goal); err != nil {
		return nil, fmt.Errorf("invalid goal file: %w", err)
	}
	return &goalFile, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Program == "" {
		return fmt.Errorf("program is required")
	}
	if _, err := os.Stat(s.Program); os.IsNotExist(err) {
		return fmt.Errorf("program file not found: %s", s.Program)
	}
	if err := validateGoalSpec(&s.Goal); err != nil {
		return err
	}
	for i, env := range s.Environment {
		set := 0
		if env.Trait != "" {
			set++
		}
		if env.Type != "" {
			set++
		}
		if set != 1 {
			return fmt.Errorf("environment[%d]: exactly one of trait or type is required", i)
		}
	}
	return nil
}

func validateGoalSpec(g *GoalSpec) error {
	set := 0
	for _, field := range []string{g.Implemented, g.WellFormedTrait, g.WellFormedType, g.IsLocal, g.IsUpstream} {
		if field != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("goal: exactly one goal kind is required")
	}
	return nil
}

// BuildGoal converts the selected goal field to a goal term.
func (g *GoalSpec) BuildGoal() (ir.Goal, error) {
	switch {
	case g.Implemented != "":
		return compiler.ParseBoundExpr(g.Implemented, nil)
	case g.WellFormedTrait != "":
		bound, err := compiler.ParseBoundExpr(g.WellFormedTrait, nil)
		if err != nil {
			return nil, err
		}
		return ir.WellFormedTrait{Ref: bound.(ir.Implemented).Ref}, nil
	case g.WellFormedType != "":
		ty, err := compiler.ParseTypeExpr(g.WellFormedType, nil)
		if err != nil {
			return nil, err
		}
		return ir.WellFormedType{Ty: ty}, nil
	case g.IsLocal != "":
		ty, err := compiler.ParseTypeExpr(g.IsLocal, nil)
		if err != nil {
			return nil, err
		}
		return ir.IsLocal{Ty: ty}, nil
	case g.IsUpstream != "":
		ty, err := compiler.ParseTypeExpr(g.IsUpstream, nil)
		if err != nil {
			return nil, err
		}
		return ir.IsUpstream{Ty: ty}, nil
	default:
		return nil, fmt.Errorf("goal: no goal kind set")
	}
}

// BuildEnvironment converts the environment specs to hypothesis clauses
// in declaration order.
func BuildEnvironment(specs []EnvSpec) (*ir.Environment, error) {
	var hypotheses []ir.ProgramClause
	for i, spec := range specs {
		var consequence ir.Goal
		switch {
		case spec.Trait != "":
			bound, err := compiler.ParseBoundExpr(spec.Trait, spec.Params)
			if err != nil {
				return nil, fmt.Errorf("environment[%d]: %w", i, err)
			}
			consequence = ir.FromEnvTrait{Ref: bound.(ir.Implemented).Ref}
		case spec.Type != "":
			ty, err := compiler.ParseTypeExpr(spec.Type, spec.Params)
			if err != nil {
				return nil, fmt.Errorf("environment[%d]: %w", i, err)
			}
			consequence = ir.FromEnvType{Ty: ty}
		default:
			return nil, fmt.Errorf("environment[%d]: exactly one of trait or type is required", i)
		}
		hypotheses = append(hypotheses, ir.ProgramClause{
			Binders:     len(spec.Params),
			Consequence: consequence,
		})
	}
	return ir.NewEnvironment(hypotheses...), nil
}
