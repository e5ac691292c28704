package endpoints

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/prompts"
	"github.com/jackzampolin/aisdk/internal/svcctx"
)

// PromptRequest names a template and the variables to render it with.
// Vars are bound first-write-wins; Overwrite entries replace them.
type PromptRequest struct {
	Name      string            `json:"name"`
	Extension string            `json:"extension,omitempty"`
	Vars      map[string]string `json:"vars,omitempty"`
	Overwrite map[string]string `json:"overwrite,omitempty"`
}

// Prompt builds the prompt described by req against s.
func (req PromptRequest) Prompt(s *svcctx.Services) (prompts.Prompt, error) {
	if req.Name == "" {
		return prompts.Prompt{}, &aierr.MissingFieldError{Field: "name"}
	}
	p := s.Prompt(req.Name, req.Extension)
	for _, k := range sortedKeys(req.Vars) {
		p = p.With(k, req.Vars[k])
	}
	for _, k := range sortedKeys(req.Overwrite) {
		p = p.WithOverwrite(k, req.Overwrite[k])
	}
	return p, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Binding is one name=value pair from the command line.
type Binding struct {
	Name  string
	Value string
}

// ParseBindings parses "name=value" arguments in order. The value may
// contain "=".
func ParseBindings(pairs []string) ([]Binding, error) {
	out := make([]Binding, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q: want name=value", pair)
		}
		out = append(out, Binding{Name: name, Value: value})
	}
	return out, nil
}

// Apply binds vars with With and then sets with WithOverwrite, in order.
func Apply(p prompts.Prompt, vars, sets []Binding) prompts.Prompt {
	for _, b := range vars {
		p = p.With(b.Name, b.Value)
	}
	for _, b := range sets {
		p = p.WithOverwrite(b.Name, b.Value)
	}
	return p
}

// bindingMaps turns --var and --set flags into request maps. Repeated --var
// names keep the first value, repeated --set names keep the last.
func bindingMaps(varFlags, setFlags []string) (vars, sets map[string]string, err error) {
	varList, err := ParseBindings(varFlags)
	if err != nil {
		return nil, nil, err
	}
	setList, err := ParseBindings(setFlags)
	if err != nil {
		return nil, nil, err
	}
	if len(varList) > 0 {
		vars = make(map[string]string, len(varList))
		for _, b := range varList {
			if _, ok := vars[b.Name]; !ok {
				vars[b.Name] = b.Value
			}
		}
	}
	if len(setList) > 0 {
		sets = make(map[string]string, len(setList))
		for _, b := range setList {
			sets[b.Name] = b.Value
		}
	}
	return vars, sets, nil
}
