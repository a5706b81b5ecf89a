package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/haal01/drawing-board/internal/config"
	"github.com/haal01/drawing-board/internal/discovery"
	"github.com/haal01/drawing-board/internal/relay"
	"github.com/haal01/drawing-board/internal/server"
)

func main() {
	if err := mainInner(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func mainInner() error {
	flags := pflag.NewFlagSet("relay", pflag.ExitOnError)
	flags.String("addr", ":8080", "the address to listen on")
	flags.Bool("mdns", false, "advertise the relay on the local network")
	flags.String("log-level", "info", "debug, info, warn or error")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	hub := relay.NewHub(relay.Options{
		ReadBufferSize:  cfg.Relay.ReadBuffer,
		WriteBufferSize: cfg.Relay.WriteBuffer,
		SendQueue:       cfg.Relay.SendQueue,
		MaxMessageBytes: cfg.Relay.MaxMessageBytes,
		CheckOrigin:     cfg.Relay.CheckOrigin,
		PingInterval:    cfg.Relay.PingInterval,
		PongWait:        cfg.Relay.PongWait,
	}, logger)

	listener, err := net.Listen("tcp", cfg.Relay.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Relay.Addr, err)
	}

	if cfg.Relay.MDNS {
		port := listener.Addr().(*net.TCPAddr).Port
		mdnsServer, err := discovery.Advertise(port)
		if err != nil {
			logger.Warn("mdns advertisement failed", "err", err)
		} else {
			defer mdnsServer.Shutdown()
			logger.Info("advertising relay", "service", discovery.ServiceType, "port", port)
		}
	}

	httpServer := &http.Server{Handler: server.New(hub, logger)}

	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
		}
	}()
	logger.Info("relay listening", "addr", listener.Addr().String(),
		"ws", "ws://localhost:"+strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)+"/ws")

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-exit
	logger.Info("signal caught", "sig", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// hijacked websocket connections are not tracked by Shutdown
	hub.Close()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("shutdown", "err", err)
	}
	wg.Wait()
	return nil
}
