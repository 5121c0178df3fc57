package batch

import (
	"context"
	"customer-service/internal/domain/customer"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

const defaultCountSchedule = "*/5 * * * *"

var CustomersRegistered = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "customer_service",
	Name:      "customers_registered",
	Help:      "Number of customers in the store at the last count.",
})

// CustomerCountJob refreshes a gauge with the number of stored customers.
type CustomerCountJob struct {
	service customer.CustomerService
	gauge   prometheus.Gauge
	logger  *slog.Logger
}

func NewCustomerCountJob(svc customer.CustomerService, gauge prometheus.Gauge, logger *slog.Logger) *CustomerCountJob {
	if svc == nil || gauge == nil || logger == nil {
		panic("CustomerCountJob dependencies cannot be nil")
	}
	return &CustomerCountJob{
		service: svc,
		gauge:   gauge,
		logger:  logger.With("job", "CustomerCount"),
	}
}

func (j *CustomerCountJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting customer count job.")

	customers, err := j.service.ListCustomers(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list customers, gauge left unchanged.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list customers: %w", err)
	}

	j.gauge.Set(float64(len(customers)))
	j.logger.InfoContext(ctx, "Customer count job finished.",
		slog.Int("count", len(customers)),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}

// Schedule registers the job on c. Each run gets its own timeout.
func (j *CustomerCountJob) Schedule(c *cron.Cron, spec string, timeout time.Duration) (cron.EntryID, error) {
	if spec == "" {
		spec = defaultCountSchedule
		j.logger.Warn("Customer count schedule not configured, using default", "schedule", spec)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if runErr := j.Run(ctx); runErr != nil {
			j.logger.Error("Customer count job finished with error", slog.Any("error", runErr))
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule customer count job %q: %w", spec, err)
	}
	j.logger.Info("Scheduled customer count job", "schedule", spec, "job_id", id)
	return id, nil
}
