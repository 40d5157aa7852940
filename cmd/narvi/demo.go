package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"reflect"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/narvi-dev/narvi/internal/model"
	"github.com/narvi-dev/narvi/pkg/binding"
	"github.com/narvi-dev/narvi/pkg/collection"
	"github.com/narvi-dev/narvi/pkg/notify"
	"github.com/narvi-dev/narvi/pkg/telemetry"
)

type demoOptions struct {
	metricsAddr string
	wait        bool
}

func demoCmd(a *app) *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted walk through the notification engine",
		Long: `Build the sample models, subscribe to them by name, by path,
weakly and through a binding, then perform a scripted series of writes
and print every notification.

With --metrics-addr (or metrics.enabled in narvi.yaml) the Prometheus
metrics of the run are served on /metrics.

Examples:
  narvi demo
  narvi demo --metrics-addr=127.0.0.1:9464 --wait`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runDemo(ctx, a, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (default from narvi.yaml)")
	cmd.Flags().BoolVarP(&opts.wait, "wait", "w", false, "Keep serving metrics until interrupted")

	return cmd
}

func runDemo(ctx context.Context, a *app, out io.Writer, opts demoOptions) error {
	reg := prometheus.NewRegistry()

	addr := opts.metricsAddr
	if addr == "" && a.cfg.Metrics.Enabled {
		addr = a.cfg.Metrics.Addr
	}

	insts := []notify.Instrumentation{telemetry.NewLogging(a.logger)}
	if addr != "" {
		insts = append(insts, telemetry.NewPrometheus(
			telemetry.WithRegistry(reg),
			telemetry.WithNamespace(a.cfg.Metrics.Namespace),
		))
	}
	if a.cfg.Tracing.Enabled {
		insts = append(insts, telemetry.OpenTelemetry(telemetry.WithTracerName(a.cfg.Tracing.Tracer)))
	}
	prev := notify.CurrentInstrumentation()
	notify.SetInstrumentation(telemetry.Multi(insts...))
	defer notify.SetInstrumentation(prev)

	var srv *http.Server
	if addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		srv = &http.Server{
			Handler:           metricsRouter(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
				a.logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		success(out, "Serving metrics on http://%s/metrics", ln.Addr())
	}

	count, err := script(out, a.logger)
	if err != nil {
		return err
	}
	success(out, "%d notifications delivered", count)

	if opts.wait && srv != nil {
		info(out, "Press Ctrl+C to stop")
		<-ctx.Done()
	}
	return nil
}

func metricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}).ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// labelWatcher is held weakly by its subscription.
type labelWatcher struct {
	out  io.Writer
	seen *int
}

func (w *labelWatcher) onLabel(source any, args *notify.NotifiedEventArgs) {
	*w.seen++
	info(w.out, "%-10s %-14s = %v (weak)", typeName(source), args.Property, display(args.NewValue))
}

// script performs the scripted writes and returns the number of
// notifications the demo handlers received.
func script(out io.Writer, logger *slog.Logger) (int, error) {
	count := 0
	var subs []notify.Subscription
	defer func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}()

	printer := func(source any, args *notify.NotifiedEventArgs) {
		count++
		info(out, "%-10s %-14s = %v", typeName(source), args.Property, display(args.NewValue))
	}
	pathPrinter := func(source any, path string, args *notify.NotifiedEventArgs) {
		count++
		info(out, "%-10s %-14s = %v (path)", typeName(source), path, display(args.NewValue))
	}

	employee := model.NewEmployee("Grace", "Hopper", "")
	customer := model.NewCustomer("Alan", "Turing")
	chain := model.Chain("head", "middle", "tail")
	watcher := &labelWatcher{out: out, seen: &count}

	sub, err := notify.NotifyForAny(employee, []string{"Full", "Badge"}, printer)
	if err != nil {
		return 0, err
	}
	subs = append(subs, sub)

	if sub, err = notify.NotifyForMethod(customer, "Label", watcher, (*labelWatcher).onLabel); err != nil {
		return 0, err
	}
	subs = append(subs, sub)

	city, err := notify.SubscribePath(customer, "Address.City", pathPrinter)
	if err != nil {
		return 0, err
	}
	subs = append(subs, city)

	tail, err := notify.SubscribePath(chain, "Next.Next.Name", pathPrinter)
	if err != nil {
		return 0, err
	}
	subs = append(subs, tail)

	orders, err := collection.NotifyFor(customer.Orders(), func(_ any, args *collection.ChangeArgs[string]) {
		count++
		info(out, "%-10s %-14s %v %v", "Orders", args.Kind, args.NewItems, args.OldItems)
	}, collection.Add, collection.Remove)
	if err != nil {
		return 0, err
	}
	subs = append(subs, orders)

	bnd, err := binding.New(
		binding.Profile{Source: employee, Property: "Last"},
		binding.Profile{Source: customer, Property: "Last"},
		binding.LeftToRight,
		binding.WithLogger(logger),
	)
	if err != nil {
		return 0, err
	}
	subs = append(subs, notify.NewRegistrar(bnd.Release))

	step := func(title string, write func()) {
		fmt.Fprintf(out, "\n%s\n", title)
		write()
	}

	step("employee.SetTitle(\"RADM\")", func() { employee.SetTitle("RADM") })
	step("employee.SetLast(\"Murray\") (bound to customer.Last)", func() { employee.SetLast("Murray") })
	step("customer.SetAddress(Dorset)", func() { customer.SetAddress(model.NewAddress("Sherborne", "Dorset")) })
	step("customer.Address().SetCity(\"Wilmslow\")", func() { customer.Address().SetCity("Wilmslow") })
	step("customer.Orders().Add/Remove", func() {
		customer.Orders().Add("enigma")
		customer.Orders().Add("bombe")
		customer.Orders().Remove("enigma")
	})
	step("chain.Next().SetNext(replacement)", func() { chain.Next().SetNext(model.NewNode("replacement")) })
	step("chain.Next().Next().SetName(\"renamed\")", func() { chain.Next().Next().SetName("renamed") })

	runtime.KeepAlive(watcher)
	fmt.Fprintln(out)
	return count, nil
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

// display keeps notifiable values from being dumped field by field.
func display(v any) any {
	if _, ok := v.(notify.Notifiable); ok {
		return "<" + typeName(v) + ">"
	}
	return v
}
