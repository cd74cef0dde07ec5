package crm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	metadatav1 "github.com/syntrixbase/crm/api/metadata/v1"
	notificationv1 "github.com/syntrixbase/crm/api/notification/v1"
	userstatev1 "github.com/syntrixbase/crm/api/userstate/v1"
	"github.com/syntrixbase/crm/internal/relay"
	"github.com/syntrixbase/crm/internal/rpcstatus"
	"github.com/syntrixbase/crm/internal/windowquery"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// UserSource streams the users matching a filter. Errors that prevent the
// query from starting are returned directly; later ones arrive in the sequence.
type UserSource interface {
	QueryUsers(ctx context.Context, f windowquery.Filter) (iter.Seq2[*userstatev1.User, error], error)
}

// ContentSource materializes content records, in request order.
type ContentSource interface {
	Materialize(ctx context.Context, ids []uint32) ([]*metadatav1.Content, error)
}

// DispatchStream is one open notification stream.
type DispatchStream interface {
	Send(*notificationv1.SendRequest) error
	Recv() (*notificationv1.SendResponse, error)
	CloseSend() error
}

// Dispatcher opens notification streams. The stream lives as long as ctx.
type Dispatcher interface {
	Open(ctx context.Context) (DispatchStream, error)
}

// UserClient is the UserSource backed by the user state service.
type UserClient struct {
	client userstatev1.UserStatsClient
}

func NewUserClient(cc grpc.ClientConnInterface) *UserClient {
	return &UserClient{client: userstatev1.NewUserStatsClient(cc)}
}

// QueryUsers waits for the first user, or the end of the stream, so that a
// rejected query fails the campaign instead of surfacing after the handoff.
func (c *UserClient) QueryUsers(ctx context.Context, f windowquery.Filter) (iter.Seq2[*userstatev1.User, error], error) {
	stream, err := c.client.Query(ctx, windowquery.ToProto(f))
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	first, err := stream.Recv()
	if errors.Is(err, io.EOF) {
		return func(func(*userstatev1.User, error) bool) {}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	rest := relay.Recv(stream.Recv)
	return func(yield func(*userstatev1.User, error) bool) {
		if !yield(first, nil) {
			return
		}
		for u, err := range rest {
			if !yield(u, err) {
				return
			}
		}
	}, nil
}

// ContentClient is the ContentSource backed by the metadata service.
type ContentClient struct {
	client metadatav1.MetadataClient
}

func NewContentClient(cc grpc.ClientConnInterface) *ContentClient {
	return &ContentClient{client: metadatav1.NewMetadataClient(cc)}
}

// Materialize sends every id on one stream while collecting the replies. The
// first in-band error fails the whole collection.
func (c *ContentClient) Materialize(ctx context.Context, ids []uint32) ([]*metadatav1.Content, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.client.Materialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		for _, id := range ids {
			if err := stream.Send(&metadatav1.MaterializeRequest{Id: id}); err != nil {
				// The cause is reported by Recv.
				return nil
			}
		}
		return stream.CloseSend()
	})

	contents := make([]*metadatav1.Content, 0, len(ids))
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			cancel()
			_ = g.Wait()
			return nil, fmt.Errorf("materialize: %w", err)
		}
		if ie := resp.GetError(); ie != nil {
			cancel()
			_ = g.Wait()
			return nil, fmt.Errorf("materialize content: %w", rpcstatus.FromItemError(ie))
		}
		contents = append(contents, resp.GetContent())
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}
	return contents, nil
}

// NotificationClient is the Dispatcher backed by the notification service.
type NotificationClient struct {
	client notificationv1.NotificationClient
}

func NewNotificationClient(cc grpc.ClientConnInterface) *NotificationClient {
	return &NotificationClient{client: notificationv1.NewNotificationClient(cc)}
}

func (c *NotificationClient) Open(ctx context.Context) (DispatchStream, error) {
	stream, err := c.client.Send(ctx)
	if err != nil {
		return nil, fmt.Errorf("open dispatch: %w", err)
	}
	return stream, nil
}

// Clients holds the collaborator connections of the orchestrator.
type Clients struct {
	Users        *UserClient
	Content      *ContentClient
	Notification *NotificationClient

	conns []*grpc.ClientConn
}

// Dial connects to the collaborators named in cfg. Collaborators sharing an
// address share a connection. Connections are established lazily.
func Dial(cfg Config, opts ...grpc.DialOption) (*Clients, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	byAddr := make(map[string]*grpc.ClientConn)
	c := &Clients{}
	get := func(addr string) (*grpc.ClientConn, error) {
		if cc, ok := byAddr[addr]; ok {
			return cc, nil
		}
		cc, err := grpc.NewClient(addr, opts...)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
		byAddr[addr] = cc
		c.conns = append(c.conns, cc)
		return cc, nil
	}

	users, err := get(cfg.UserStateAddr)
	if err != nil {
		return nil, err
	}
	content, err := get(cfg.MetadataAddr)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	notify, err := get(cfg.NotificationAddr)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Users = NewUserClient(users)
	c.Content = NewContentClient(content)
	c.Notification = NewNotificationClient(notify)
	return c, nil
}

func (c *Clients) Close() error {
	var errs []error
	for _, cc := range c.conns {
		if err := cc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
