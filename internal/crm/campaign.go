// Package crm runs outreach campaigns. A campaign queries the users matching a
// time window, materializes the campaign content once and streams one
// personalized message per user to the notification service. The caller is
// acknowledged as soon as dispatch has been handed off.
package crm

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/syntrixbase/crm/internal/rpcstatus"
	"github.com/syntrixbase/crm/internal/windowquery"
)

// ErrInvalidRequest marks a campaign rejected before any collaborator is called.
var ErrInvalidRequest = fmt.Errorf("%w: invalid campaign", rpcstatus.ErrInvalidArgument)

// Workflow names a campaign variant.
type Workflow string

const (
	WorkflowWelcome Workflow = "welcome"
	WorkflowRecall  Workflow = "recall"
	WorkflowRemind  Workflow = "remind"
)

// Campaign is one invocation of a workflow.
type Campaign struct {
	ID       string   `validate:"max=128"`
	Workflow Workflow `validate:"oneof=welcome recall remind"`
	// Days is the welcome interval or the recall/remind last visit interval.
	Days       uint32   `validate:"lte=36500"`
	ContentIDs []uint32 `validate:"dive,gt=0"`
}

// UniqueContentIDs returns the content ids in first-seen order without duplicates.
func (c Campaign) UniqueContentIDs() []uint32 {
	seen := make(map[uint32]struct{}, len(c.ContentIDs))
	out := make([]uint32, 0, len(c.ContentIDs))
	for _, id := range c.ContentIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateCampaign(v *validator.Validate, c Campaign) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	slices.Sort(msgs)
	return fmt.Errorf("%w: %v", ErrInvalidRequest, msgs)
}

// workflowSpec is the resolved configuration of one workflow.
type workflowSpec struct {
	name    Workflow
	field   string
	policy  windowquery.Policy
	subject string
	// materialize is false for workflows that send a fixed body.
	materialize bool
	// creation windows on the creation field rather than a last-seen threshold.
	creation bool
}

func resolveWorkflows(cfg WorkflowsConfig) (map[Workflow]workflowSpec, error) {
	specs := make(map[Workflow]workflowSpec, 3)
	for _, w := range []struct {
		name        Workflow
		cfg         WorkflowConfig
		materialize bool
	}{
		{WorkflowWelcome, cfg.Welcome, true},
		{WorkflowRecall, cfg.Recall, true},
		{WorkflowRemind, cfg.Remind, false},
	} {
		policy, err := windowquery.ParsePolicy(w.cfg.Policy)
		if err != nil {
			return nil, fmt.Errorf("workflow %s: %w", w.name, err)
		}
		specs[w.name] = workflowSpec{
			name:        w.name,
			field:       w.cfg.Field,
			policy:      policy,
			subject:     w.cfg.Subject,
			materialize: w.materialize,
			creation:    w.name == WorkflowWelcome,
		}
	}
	return specs, nil
}
