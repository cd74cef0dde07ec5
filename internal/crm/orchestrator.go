package crm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/juju/clock"
	metadatav1 "github.com/syntrixbase/crm/api/metadata/v1"
	notificationv1 "github.com/syntrixbase/crm/api/notification/v1"
	userstatev1 "github.com/syntrixbase/crm/api/userstate/v1"
	"github.com/syntrixbase/crm/internal/ctxkeys"
	"github.com/syntrixbase/crm/internal/metrics"
	"github.com/syntrixbase/crm/internal/relay"
	"github.com/syntrixbase/crm/internal/rpcstatus"
	"github.com/syntrixbase/crm/internal/windowquery"
	"golang.org/x/sync/errgroup"
)

// Orchestrator runs campaigns against the three collaborators.
type Orchestrator struct {
	cfg      Config
	users    UserSource
	content  ContentSource
	dispatch Dispatcher
	sup      *Supervisor
	clock    clock.Clock
	validate *validator.Validate
	specs    map[Workflow]workflowSpec
	logger   *slog.Logger
}

type Option func(*Orchestrator)

// WithClock sets the clock the query windows are computed from.
func WithClock(clk clock.Clock) Option {
	return func(o *Orchestrator) {
		if clk != nil {
			o.clock = clk
		}
	}
}

// New returns an orchestrator whose detached dispatch tasks run under sup.
func New(cfg Config, users UserSource, content ContentSource, dispatch Dispatcher, sup *Supervisor, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	specs, err := resolveWorkflows(cfg.Workflows)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if sup == nil {
		sup = NewSupervisor(logger)
	}
	o := &Orchestrator{
		cfg:      cfg,
		users:    users,
		content:  content,
		dispatch: dispatch,
		sup:      sup,
		clock:    clock.WallClock,
		validate: validator.New(),
		specs:    specs,
		logger:   logger.With("component", "crm"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Supervisor returns the supervisor owning the dispatch tasks.
func (o *Orchestrator) Supervisor() *Supervisor { return o.sup }

// Run starts a campaign and returns its id once dispatch has been handed off.
// Failures before the handoff are returned; later ones are logged and counted.
func (o *Orchestrator) Run(ctx context.Context, c Campaign) (string, error) {
	start := o.clock.Now()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := validateCampaign(o.validate, c); err != nil {
		metrics.CampaignsTotal.WithLabelValues(string(c.Workflow), "rejected").Inc()
		return c.ID, err
	}
	spec := o.specs[c.Workflow]
	logger := o.logger.With("campaign_id", c.ID, "workflow", string(c.Workflow))

	id, err := o.run(ctx, c, spec, logger)
	if err != nil {
		outcome := "failed"
		if errors.Is(err, ErrInvalidRequest) {
			outcome = "rejected"
		}
		metrics.CampaignsTotal.WithLabelValues(string(c.Workflow), outcome).Inc()
		logger.Warn("Campaign failed", "error", err)
		return id, err
	}
	metrics.CampaignsTotal.WithLabelValues(string(c.Workflow), "accepted").Inc()
	metrics.CampaignStartLatency.WithLabelValues(string(c.Workflow)).Observe(o.clock.Now().Sub(start).Seconds())
	logger.Info("Campaign accepted")
	return id, nil
}

func (o *Orchestrator) run(ctx context.Context, c Campaign, spec workflowSpec, logger *slog.Logger) (string, error) {
	if o.sup.Closed() {
		return c.ID, ErrSupervisorClosed
	}

	b := windowquery.NewBuilder(o.clock, spec.policy)
	if spec.creation {
		b.ForCreationWindow(int(c.Days), spec.field)
	} else {
		b.ForThresholdWindow(int(c.Days), spec.field)
	}
	filter, err := b.Build()
	if err != nil {
		return c.ID, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// The user query and the dispatch stream outlive the call, so they hang off
	// a context that follows the caller only until the handoff and the
	// supervisor until the tasks finish.
	dctx, dcancel := context.WithCancel(context.WithValue(context.WithoutCancel(ctx), ctxkeys.KeyCampaignID, c.ID))
	stopCaller := context.AfterFunc(ctx, dcancel)
	stopSup := context.AfterFunc(o.sup.Context(), dcancel)
	handedOff := false
	defer func() {
		stopCaller()
		if !handedOff {
			stopSup()
			dcancel()
		}
	}()

	var (
		users    iter.Seq2[*userstatev1.User, error]
		contents []*metadatav1.Content
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = o.users.QueryUsers(dctx, filter)
		return err
	})
	if spec.materialize {
		ids := c.UniqueContentIDs()
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, o.cfg.ContentTimeout)
			defer cancel()
			var err error
			if contents, err = o.content.Materialize(cctx, ids); err != nil {
				// Unblock a user query still waiting for its first row.
				dcancel()
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return c.ID, err
	}

	stream, err := o.dispatch.Open(dctx)
	if err != nil {
		return c.ID, err
	}

	results := relay.Start(dctx, users,
		func(_ context.Context, u *userstatev1.User) (*notificationv1.SendRequest, error) {
			return render(spec, o.cfg.SenderEmail, u, contents)
		},
		relay.WithCapacity(o.cfg.RelayCapacity),
		relay.WithName("crm.dispatch"),
		relay.WithLogger(logger),
	)

	attrs := []any{"campaign_id", c.ID, "workflow", string(c.Workflow)}
	wf := string(c.Workflow)
	err = o.sup.Go("crm.dispatch", attrs, func(context.Context) error {
		defer stopSup()
		defer dcancel()
		var tasks errgroup.Group
		tasks.Go(func() error { return forward(results, stream, wf, dcancel, logger) })
		tasks.Go(func() error { return drainAcks(dctx, stream, wf, logger) })
		return tasks.Wait()
	})
	if err != nil {
		return c.ID, err
	}

	handedOff = true
	return c.ID, nil
}

func forward(results <-chan relay.Result[*notificationv1.SendRequest], stream DispatchStream, wf string, cancel context.CancelFunc, logger *slog.Logger) error {
	var sent, dropped int
	for r := range results {
		if r.Err != nil {
			dropped++
			reason := "upstream"
			if errors.Is(r.Err, errNoRecipient) {
				reason = "no_recipient"
			}
			metrics.MessagesDropped.WithLabelValues(wf, reason).Inc()
			logger.Warn("Dropping message", "reason", reason, "error", r.Err)
			continue
		}
		if err := stream.Send(r.Value); err != nil {
			// Stop the producer and count what it had already queued.
			cancel()
			lost := 1
			for range results {
				lost++
			}
			dropped += lost
			metrics.MessagesDropped.WithLabelValues(wf, "dispatch").Add(float64(lost))
			return fmt.Errorf("dispatch stream closed after %d messages, %d dropped: %w", sent, dropped, err)
		}
		sent++
		metrics.MessagesEnqueued.WithLabelValues(wf).Inc()
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("close dispatch stream: %w", err)
	}
	logger.Info("Campaign dispatched", "sent", sent, "dropped", dropped)
	return nil
}

func drainAcks(ctx context.Context, stream DispatchStream, wf string, logger *slog.Logger) error {
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive acknowledgement: %w", err)
		}
		if ie := resp.GetError(); ie != nil {
			metrics.DispatchAcks.WithLabelValues(wf, "error").Inc()
			logger.Warn("Message rejected", "message_id", resp.GetMessageId(), "error", rpcstatus.FromItemError(ie))
			continue
		}
		metrics.DispatchAcks.WithLabelValues(wf, "ok").Inc()
	}
}
