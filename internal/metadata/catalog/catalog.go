// Package catalog resolves content ids into content records.
package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/juju/clock"
	metadatav1 "github.com/syntrixbase/crm/api/metadata/v1"
	"github.com/syntrixbase/crm/internal/rpcstatus"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ErrInvalidID is returned for the reserved id 0.
var ErrInvalidID = fmt.Errorf("%w: content id must be positive", rpcstatus.ErrInvalidArgument)

// Catalog looks up one content record.
type Catalog interface {
	Get(ctx context.Context, id uint32) (*metadatav1.Content, error)
}

const placeholder = "https://placehold.co/400x400"

var (
	givenNames = []string{"Ming", "Hua", "Lei", "Yan", "Jun", "Fang", "Tao", "Li", "Xin", "Bo"}
	familyName = []string{"Wang", "Li", "Zhang", "Liu", "Chen", "Yang", "Zhao", "Huang", "Zhou", "Wu"}
	words      = []string{
		"river", "light", "story", "city", "night", "journey", "winter", "garden", "signal", "harbor",
		"echo", "summit", "market", "letter", "window", "forest", "bridge", "season", "voice", "road",
	}
)

// Generated fabricates content. The same id always yields the same record
// within one UTC day; content is always created a fixed number of days ago.
type Generated struct {
	clock   clock.Clock
	ageDays int
}

// NewGenerated returns a generated catalog. A nil clock uses the wall clock.
func NewGenerated(clk clock.Clock, ageDays int) *Generated {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Generated{clock: clk, ageDays: ageDays}
}

func (g *Generated) Get(ctx context.Context, id uint32) (*metadatav1.Content, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := rand.New(rand.NewPCG(uint64(id), 0x9e3779b97f4a7c15))

	publishers := make([]*metadatav1.Publisher, 1+r.IntN(9))
	for i := range publishers {
		publishers[i] = &metadatav1.Publisher{
			Id:     10000 + r.Uint32N(190000),
			Name:   name(r),
			Avatar: placeholder,
		}
	}

	created := g.clock.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -g.ageDays)
	return &metadatav1.Content{
		Id:          id,
		Name:        name(r),
		Description: sentence(r, 3+r.IntN(17)),
		Publishers:  publishers,
		Url:         placeholder,
		Image:       placeholder,
		Type:        metadatav1.ContentType(1 + r.IntN(4)),
		CreatedAt:   timestamppb.New(created),
		Views:       123412 + r.Uint32N(1000000000-123412),
		Likes:       123333 + r.Uint32N(100000000),
		Dislikes:    121313 + r.Uint32N(10000000),
	}, nil
}

func name(r *rand.Rand) string {
	return familyName[r.IntN(len(familyName))] + " " + givenNames[r.IntN(len(givenNames))]
}

func sentence(r *rand.Rand, n int) string {
	b := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		w := words[r.IntN(len(words))]
		if i == 0 {
			b = append(b, w[0]-'a'+'A')
			w = w[1:]
		} else {
			b = append(b, ' ')
		}
		b = append(b, w...)
	}
	return string(append(b, '.'))
}
