package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"faq/app/server"
	"faq/config"
)

func init() {
	config.LoadEnv()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := server.NewServer(cfg)

	errch := make(chan error, 1)
	go func() {
		errch <- s.Run(ctx)
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigch:
		log.Println("Received shutdown signal, shutting down server...")
		cancel()
		s.Stop()
		if err := <-errch; err != nil {
			log.Println(err)
		}
	case err := <-errch:
		cancel()
		if err != nil {
			log.Fatal(err)
		}
	}
}
