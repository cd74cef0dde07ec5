package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/syntrixbase/crm/internal/config"
	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/userstate/store"
)

var names = []string{"Ada", "Grace", "Linus", "Ken", "Barbara", "Edsger", "Frances", "Dennis", "Radia", "Niklaus"}

func main() {
	n := flag.Int("n", 100, "Number of users to generate")
	seed := flag.Uint64("seed", 1, "Random seed")
	maxAge := flag.Int("max-age", 90, "Users are created up to this many days ago")
	maxContent := flag.Uint("max-content", 50, "Content ids are drawn from 1..max-content")
	flag.Parse()

	cfg := config.LoadConfig()
	if cfg.UserState.Store == userstate.StoreMemory {
		log.Fatalf("user_state.store is %q; seeding needs a persistent store", cfg.UserState.Store)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg.UserState)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close(context.Background())

	users := generate(rand.New(rand.NewPCG(*seed, *seed)), *n, time.Now().UTC(), *maxAge, uint32(*maxContent))
	if err := st.Insert(ctx, users...); err != nil {
		log.Fatalf("Failed to insert users: %v", err)
	}
	fmt.Printf("seeded %d users into %s\n", len(users), cfg.UserState.Store)
}

func generate(r *rand.Rand, n int, now time.Time, maxAgeDays int, maxContent uint32) []userstate.User {
	if maxAgeDays < 1 {
		maxAgeDays = 1
	}
	if maxContent < 1 {
		maxContent = 1
	}
	ago := func(maxDays int) time.Time {
		return now.Add(-time.Duration(r.Int64N(int64(maxDays) * int64(24*time.Hour))))
	}
	between := func(from time.Time) time.Time {
		span := now.Sub(from)
		if span <= 0 {
			return from
		}
		return from.Add(time.Duration(r.Int64N(int64(span))))
	}
	ids := func() []uint32 {
		k := r.IntN(5)
		out := make([]uint32, 0, k)
		for range k {
			out = append(out, 1+r.Uint32N(maxContent))
		}
		return out
	}

	users := make([]userstate.User, 0, n)
	for i := range n {
		created := ago(maxAgeDays)
		visited := between(created)
		u := userstate.User{
			Email:                 fmt.Sprintf("user%05d@example.com", i),
			Name:                  names[r.IntN(len(names))],
			Gender:                []string{"female", "male", "other"}[r.IntN(3)],
			CreatedAt:             created,
			LastVisitedAt:         visited,
			LastWatchedAt:         between(created),
			RecentWatched:         ids(),
			ViewedButNotStarted:   ids(),
			StartedButNotFinished: ids(),
			Finished:              ids(),
		}
		users = append(users, u)
	}
	return users
}
