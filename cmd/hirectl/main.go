package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accessibilityhire/internal/config"
	"accessibilityhire/internal/logger"
	"accessibilityhire/internal/repository"
	"accessibilityhire/internal/server"
	"accessibilityhire/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: hirectl <indexes|sweep|version>")
		os.Exit(2)
	}

	cfg := config.New()
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "indexes":
		iCmd := flag.NewFlagSet("indexes", flag.ExitOnError)
		timeout := iCmd.Duration("timeout", 30*time.Second, "Overall timeout")
		iCmd.Parse(os.Args[2:])

		ctx, cancel := context.WithTimeout(ctx, *timeout)
		defer cancel()

		client, err := server.Connect(ctx, cfg)
		if err != nil {
			log.Fatalf("Connect error: %v", err)
		}
		defer client.Disconnect(context.Background())

		if err := repository.EnsureIndexes(ctx, client.Database(cfg.Mongo.Database)); err != nil {
			log.Fatalf("Index error: %v", err)
		}
		for name := range repository.IndexSpecs() {
			fmt.Printf(">> %s.%s\n", cfg.Mongo.Database, name)
		}

	case "sweep":
		sCmd := flag.NewFlagSet("sweep", flag.ExitOnError)
		grace := sCmd.Int("grace", cfg.Sweep.GraceMinutes, "Skip images younger than this many minutes")
		sCmd.Parse(os.Args[2:])

		cfg.Sweep.GraceMinutes = *grace
		srv, err := server.New(cfg, log)
		if err != nil {
			log.Fatalf("Setup error: %v", err)
		}
		defer srv.Close()

		removed, err := srv.Services().Sweeper.Sweep(ctx)
		if err != nil {
			log.Fatalf("Sweep error: %v", err)
		}
		fmt.Printf(">> Removed %d orphaned profile images\n", removed)

	case "version":
		fmt.Println(version.Get().String())

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}
}
