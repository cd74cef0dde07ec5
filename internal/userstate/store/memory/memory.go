// Package memory is an in-process user store. Filters are rendered into CEL
// programs whose bounds are bound as parameters, never spliced into the source.
package memory

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/windowquery"
)

type Store struct {
	mu    sync.RWMutex
	users []userstate.User
	index map[string]int

	env *cel.Env
}

func New() (*Store, error) {
	var opts []cel.EnvOption
	for _, c := range userstate.TimeColumns {
		opts = append(opts, cel.Variable(c, cel.TimestampType))
	}
	for _, c := range userstate.IDColumns {
		opts = append(opts, cel.Variable(c, cel.ListType(cel.UintType)))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}
	return &Store{
		index: make(map[string]int),
		env:   env,
	}, nil
}

// program is a compiled filter plus its parameter bindings.
type program struct {
	prg    cel.Program
	params map[string]any
}

// compile renders f into CEL. A nil program matches every user.
func (s *Store) compile(f windowquery.Filter) (*program, string, error) {
	if f.IsEmpty() {
		return nil, "", nil
	}

	var (
		clauses []string
		decls   []cel.EnvOption
		params  = make(map[string]any)
	)
	bind := func(t *cel.Type, v any) string {
		name := fmt.Sprintf("p%d", len(params))
		decls = append(decls, cel.Variable(name, t))
		params[name] = v
		return name
	}

	for _, field := range f.TimeFields() {
		r, _ := f.Range(field)
		if r.Since != nil {
			clauses = append(clauses, fmt.Sprintf("%s >= %s", field, bind(cel.TimestampType, *r.Since)))
		}
		if r.Until != nil {
			clauses = append(clauses, fmt.Sprintf("%s <= %s", field, bind(cel.TimestampType, *r.Until)))
		}
	}
	for _, field := range f.IDFields() {
		ids, _ := f.IDSet(field)
		p := bind(cel.ListType(cel.UintType), widen(ids))
		clauses = append(clauses, fmt.Sprintf("%s.all(id, id in %s)", p, field))
	}
	if len(clauses) == 0 {
		return nil, "", nil
	}
	expr := strings.Join(clauses, " && ")

	env, err := s.env.Extend(decls...)
	if err != nil {
		return nil, expr, fmt.Errorf("failed to extend CEL env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, expr, fmt.Errorf("CEL compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, expr, fmt.Errorf("CEL program creation error: %w", err)
	}
	return &program{prg: prg, params: params}, expr, nil
}

func (p *program) match(u *userstate.User) (bool, error) {
	if p == nil {
		return true, nil
	}
	vars := make(map[string]any, len(p.params)+len(userstate.TimeColumns)+len(userstate.IDColumns))
	for k, v := range p.params {
		vars[k] = v
	}
	for _, c := range userstate.TimeColumns {
		vars[c], _ = u.TimeOf(c)
	}
	for _, c := range userstate.IDColumns {
		ids, _ := u.IDsOf(c)
		vars[c] = widen(ids)
	}

	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return false, err
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("CEL result is not boolean: %T", out.Value())
	}
	return ok, nil
}

func widen(ids []uint32) []uint64 {
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out
}

// Query evaluates f over a snapshot of the users taken at call time, in
// insertion order.
func (s *Store) Query(ctx context.Context, f windowquery.Filter) (iter.Seq2[userstate.User, error], error) {
	prg, _, err := s.compile(f)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	snapshot := slices.Clone(s.users)
	s.mu.RUnlock()

	return func(yield func(userstate.User, error) bool) {
		for i := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(userstate.User{}, err)
				return
			}
			ok, err := prg.match(&snapshot[i])
			if err != nil {
				yield(userstate.User{}, fmt.Errorf("evaluate %s: %w", snapshot[i].Email, err))
				return
			}
			if ok && !yield(snapshot[i], nil) {
				return
			}
		}
	}, nil
}

// Insert adds users, replacing any existing user with the same email.
func (s *Store) Insert(_ context.Context, users ...userstate.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		if u.Email == "" {
			return fmt.Errorf("user email is required")
		}
		if i, ok := s.index[u.Email]; ok {
			s.users[i] = u
			continue
		}
		s.index[u.Email] = len(s.users)
		s.users = append(s.users, u)
	}
	return nil
}

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) Close(context.Context) error { return nil }
