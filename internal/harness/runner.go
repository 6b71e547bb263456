// Package harness drives the fixed smoke sequence against an orders service.
//
// The sequence is strictly sequential: create the backing table, create N
// orders, list them, then get / update / delete each listed order, and list
// again. Every call's raw response body is printed to the report writer
// followed by a best-effort parsed form, so an operator can eyeball what the
// service actually said. Failures are logged and swallowed: the run always
// proceeds to the next step and the process never exits non-zero because of
// a bad response.
package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"

	"github.com/orders-api/api-smoke/internal/ordersapi"
	"github.com/orders-api/api-smoke/internal/safestep"
	"github.com/orders-api/api-smoke/internal/telemetry"
)

// Operation names used for logging, failure reporting, and metric labels.
const (
	opCreateTable = "create_table"
	opCreateOrder = "create_order"
	opListOrders  = "list_orders"
	opGetOrder    = "get_order"
	opUpdateOrder = "update_order"
	opDeleteOrder = "delete_order"
)

// RunContext is the harness's only retained state: the most recently fetched
// order list. It is replaced each time a list call succeeds and parses, and
// kept untouched when one fails, so the per-order steps always work against
// the last good snapshot.
type RunContext struct {
	list *ordersapi.OrderList
}

// Orders returns the cached order list, nil when nothing has been fetched.
func (rc *RunContext) Orders() []ordersapi.Order {
	if rc.list == nil {
		return nil
	}
	return rc.list.Orders
}

// Empty reports whether no orders are cached.
func (rc *RunContext) Empty() bool {
	return len(rc.Orders()) == 0
}

// Runner executes smoke steps against one client, writing the report to out.
type Runner struct {
	client  *ordersapi.Client
	out     io.Writer
	rctx    RunContext
	printed bool
}

// New builds a Runner reporting to out.
func New(client *ordersapi.Client, out io.Writer) *Runner {
	return &Runner{
		client: client,
		out:    out,
	}
}

// Run executes the full smoke sequence, creating n orders.
func (r *Runner) Run(ctx context.Context, n int) {
	r.CreateTable(ctx)
	for i := 0; i < n; i++ {
		r.CreateOrder(ctx)
	}
	r.ListOrders(ctx)
	r.GetOrderEach(ctx)
	r.UpdateOrderEach(ctx)
	r.DeleteOrderEach(ctx)
	r.ListOrders(ctx)
}

// CreateTable invokes the table-provisioning endpoint once.
func (r *Runner) CreateTable(ctx context.Context) {
	r.banner("CREATE TABLE")
	r.step(opCreateTable, func() error {
		resp, err := r.call(opCreateTable, func() (*ordersapi.Response, error) {
			return r.client.CreateTable(ctx)
		})
		if err != nil {
			return err
		}
		return r.report(resp, false)
	})
}

// CreateOrder creates one order with random fields.
func (r *Runner) CreateOrder(ctx context.Context) {
	r.banner("CREATING ORDER")
	r.step(opCreateOrder, func() error {
		resp, err := r.call(opCreateOrder, func() (*ordersapi.Response, error) {
			return r.client.CreateOrder(ctx, ordersapi.NewCreateOrder())
		})
		if err != nil {
			return err
		}
		return r.report(resp, false)
	})
}

// ListOrders fetches all orders. On a successful parse the result replaces
// the cached RunContext list; on any failure the previous snapshot survives.
func (r *Runner) ListOrders(ctx context.Context) {
	r.banner("GETTING ALL ORDERS")
	r.step(opListOrders, func() error {
		resp, err := r.call(opListOrders, func() (*ordersapi.Response, error) {
			return r.client.ListOrders(ctx)
		})
		if err != nil {
			return err
		}
		if err := r.report(resp, false); err != nil {
			return err
		}

		var list ordersapi.OrderList
		if err := json.Unmarshal(resp.Body, &list); err != nil {
			return fmt.Errorf("decoding order list: %w", err)
		}
		r.rctx.list = &list
		return nil
	})
}

// GetOrderEach fetches every cached order individually. Prints a notice and
// does nothing when no orders are cached.
func (r *Runner) GetOrderEach(ctx context.Context) {
	r.banner("GETTING SPECIFIC ORDERS")
	if r.rctx.Empty() {
		fmt.Fprintln(r.out, "Nothing!")
		return
	}
	for _, o := range r.rctx.Orders() {
		r.step(opGetOrder, func() error {
			resp, err := r.call(opGetOrder, func() (*ordersapi.Response, error) {
				return r.client.GetOrder(ctx, o.OrderID)
			})
			if err != nil {
				return err
			}
			return r.report(resp, false)
		})
	}
}

// UpdateOrderEach updates every cached order with fresh random fields plus
// its previously observed version token. The HTTP status code is printed
// beside the body, the one place the harness surfaces a status, because
// stale-version rejections show up there. No-op when nothing is cached.
func (r *Runner) UpdateOrderEach(ctx context.Context) {
	r.banner("UPDATING SPECIFIC ORDERS")
	if r.rctx.Empty() {
		return
	}
	for _, o := range r.rctx.Orders() {
		r.step(opUpdateOrder, func() error {
			payload := ordersapi.NewUpdateOrder(o.Version)
			resp, err := r.call(opUpdateOrder, func() (*ordersapi.Response, error) {
				return r.client.UpdateOrder(ctx, o.OrderID, payload)
			})
			if err != nil {
				return err
			}
			return r.report(resp, true)
		})
	}
}

// DeleteOrderEach deletes every cached order. No-op when nothing is cached.
func (r *Runner) DeleteOrderEach(ctx context.Context) {
	r.banner("DELETING SPECIFIC ORDERS")
	if r.rctx.Empty() {
		return
	}
	for _, o := range r.rctx.Orders() {
		r.step(opDeleteOrder, func() error {
			resp, err := r.call(opDeleteOrder, func() (*ordersapi.Response, error) {
				return r.client.DeleteOrder(ctx, o.OrderID)
			})
			if err != nil {
				return err
			}
			return r.report(resp, false)
		})
	}
}

// call issues one API call, counting it and timing it.
func (r *Runner) call(
	op string, fn func() (*ordersapi.Response, error),
) (*ordersapi.Response, error) {
	telemetry.APICallsTotal.WithLabelValues(op).Inc()
	start := time.Now()
	resp, err := fn()
	telemetry.APICallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return resp, err
}

// step applies the uniform failure policy: any error (or recovered panic)
// inside fn is logged with the operation name, counted, printed to the
// report, and swallowed.
func (r *Runner) step(op string, fn func() error) {
	if err := safestep.Run(op, fn); err != nil {
		telemetry.APICallFailuresTotal.WithLabelValues(op).Inc()
		slog.Error("smoke step failed", "operation", op, "error", err)
		fmt.Fprintf(r.out, "%s failed.\n%v\n", op, err)
	}
}

// report prints the raw response body and its best-effort parsed form. When
// withStatus is set the HTTP status code follows the body on the same line.
func (r *Runner) report(resp *ordersapi.Response, withStatus bool) error {
	if withStatus {
		fmt.Fprintf(r.out, "%s %d\n", resp.Body, resp.Status)
	} else {
		fmt.Fprintf(r.out, "%s\n", resp.Body)
	}

	fmt.Fprintln(r.out, "\nAttempting to parse JSON...")
	if !gjson.ValidBytes(resp.Body) {
		return fmt.Errorf("response is not valid JSON: %.120q", resp.Body)
	}
	fmt.Fprintf(r.out, "%s\n\n", gjson.ParseBytes(resp.Body).String())
	return nil
}

// banner writes a step heading, blank-line separated from the previous step.
func (r *Runner) banner(title string) {
	if r.printed {
		fmt.Fprint(r.out, "\n\n")
	}
	fmt.Fprintf(r.out, "TEST: %s\n", title)
	r.printed = true
}
