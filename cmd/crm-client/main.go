package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	crmv1 "github.com/syntrixbase/crm/api/crm/v1"
	"github.com/syntrixbase/crm/internal/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	genKeys := flag.String("gen-keys", "", "Generate an Ed25519 key pair into this directory and exit")
	keyFile := flag.String("key", "", "Private key used to sign the request token")
	addr := flag.String("addr", "localhost:50000", "Address of the CRM gRPC server")
	workflow := flag.String("workflow", "welcome", "Campaign to run: welcome, recall or remind")
	id := flag.String("id", "", "Campaign id (generated when empty)")
	interval := flag.Uint("interval", 0, "Welcome interval or last visit interval, in days")
	contentIDs := flag.String("content-ids", "", "Comma separated content ids")
	email := flag.String("email", "operator@example.com", "Operator email placed in the token")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")
	flag.Parse()

	if *genKeys != "" {
		priv, pub, err := auth.WriteKeyPair(*genKeys)
		if err != nil {
			log.Fatalf("Failed to generate keys: %v", err)
		}
		fmt.Printf("private key: %s\npublic key:  %s\n", priv, pub)
		return
	}

	ids, err := parseIDs(*contentIDs)
	if err != nil {
		log.Fatalf("Invalid -content-ids: %v", err)
	}
	if *id == "" {
		*id = uuid.NewString()
	}

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if *keyFile != "" {
		signer, err := auth.LoadSigner(*keyFile, auth.DefaultIssuer, auth.DefaultAudience, time.Hour)
		if err != nil {
			log.Fatalf("Failed to load key: %v", err)
		}
		token, err := signer.Sign(auth.Identity{Email: *email, Fullname: "crm-client", CreatedAt: time.Now()})
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		opts = append(opts, grpc.WithPerRPCCredentials(auth.TokenCredentials{Token: token, Insecure: true}))
	}

	conn, err := grpc.NewClient(*addr, opts...)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	client := crmv1.NewCrmClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	days := uint32(*interval)
	var got string
	switch *workflow {
	case "welcome":
		resp, err := client.Welcome(ctx, &crmv1.WelcomeRequest{Id: *id, Interval: days, ContentIds: ids})
		if err != nil {
			log.Fatalf("Welcome failed: %v", err)
		}
		got = resp.GetId()
	case "recall":
		resp, err := client.Recall(ctx, &crmv1.RecallRequest{Id: *id, LastVisitInterval: days, ContentIds: ids})
		if err != nil {
			log.Fatalf("Recall failed: %v", err)
		}
		got = resp.GetId()
	case "remind":
		resp, err := client.Remind(ctx, &crmv1.RemindRequest{Id: *id, LastVisitInterval: days})
		if err != nil {
			log.Fatalf("Remind failed: %v", err)
		}
		got = resp.GetId()
	default:
		log.Fatalf("Unknown workflow %q", *workflow)
	}
	fmt.Printf("campaign %s accepted\n", got)
}

func parseIDs(s string) ([]uint32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []uint32
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		ids = append(ids, uint32(n))
	}
	return ids, nil
}
