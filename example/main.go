package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/izone"
	"github.com/jpalmerr/izone/example/mock"
)

func main() {
	// start the mock APIs on a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		slog.Error("failed to start mock server", "error", err)
		os.Exit(1)
	}
	go func() {
		srv := &http.Server{Handler: mock.NewHandler(), ReadHeaderTimeout: 10 * time.Second}
		_ = srv.Serve(ln)
	}()
	base := "http://" + ln.Addr().String()

	widgets := []izone.Widget{}
	for _, src := range []struct {
		kind izone.Kind
		path string
	}{
		{izone.KindCrypto, mock.CryptoPath},
		{izone.KindExchange, mock.ExchangePath},
		{izone.KindRepos, mock.ReposPath},
	} {
		def, _ := izone.DefaultWidget(src.kind)
		w, err := izone.NewWidget(src.kind, "", base+src.path,
			izone.WithIcon(def.Icon()),
			izone.WithDescription("Mock "+def.Description()),
		)
		if err != nil {
			slog.Error("failed to create widget", "error", err)
			os.Exit(1)
		}
		widgets = append(widgets, w)
	}

	// log every failure as it happens
	onState := func(s izone.WidgetState) {
		if s.Phase == izone.PhaseFailure {
			slog.Warn("widget failed", "widget", s.Name, "error", s.ErrorMessage(), "has_data", s.Data != nil)
		}
	}

	d, err := izone.New(
		izone.WithWidgets(widgets...),
		izone.WithTitle("iZone Demo"),
		izone.WithPollingInterval(5*time.Second),
		izone.WithTickStagger(500*time.Millisecond),
		izone.WithStateCallback(onState),
		izone.WithPort(8080),
	)
	if err != nil {
		slog.Error("failed to create dashboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   iZone Demo                                          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Widgets poll a local mock every 5s; about 1 in 10   ║")
	fmt.Println("  ║   requests fails so the error state shows up too.     ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Start(ctx); err != nil {
		slog.Error("izone error", "error", err)
		os.Exit(1)
	}
}
