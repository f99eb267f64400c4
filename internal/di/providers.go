package di

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Condor/internal/cleaning"
	"Condor/internal/domain/repository"
	"Condor/internal/handler/api"
	internalrepo "Condor/internal/repository"
	"Condor/internal/search"
	"Condor/internal/service/marketdata"
	"Condor/internal/service/ratelimit"
	"Condor/internal/usecase"
	pkgcache "Condor/pkg/cache"
	pkgch "Condor/pkg/clickhouse"
	"Condor/pkg/config"
	pkghttp "Condor/pkg/http"
	pkgkafka "Condor/pkg/kafka"
	"Condor/pkg/logger"
	"Condor/pkg/metrics"
	"Condor/pkg/queue"
	"Condor/pkg/secrets"
	"Condor/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// AttachLogCollector enables error-log aggregation when a log topic is
// configured: repeated errors are deduplicated and flushed to Kafka in
// batches instead of flooding the topic line by line.
func AttachLogCollector(cfg *config.Config, log *logger.Logger, producer *pkgkafka.Producer) {
	if cfg.Kafka.LogTopic == "" {
		return
	}
	log.AddCollector(&logger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          cfg.Kafka.LogTopic,
		Publisher:      logPublisher{producer: producer},
	})
}

// logPublisher adapts the Kafka producer to the collector's publisher
// interface. Aggregated log batches are not keyed.
type logPublisher struct {
	producer *pkgkafka.Producer
}

func (p logPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideCache creates the layered cache service: in-process memory in
// front of Redis.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	host, port := splitHostPort(cfg.Redis.Addr)
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(c), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvidePriceStore creates the ClickHouse price history store.
func ProvidePriceStore(client *pkgch.Client, log *logger.Logger) repository.PriceStore {
	return internalrepo.NewPriceStore(client, log)
}

// ProvideForecastStore creates the ClickHouse forecast store.
func ProvideForecastStore(client *pkgch.Client, log *logger.Logger) repository.ForecastStore {
	return internalrepo.NewForecastStore(client, log)
}

// ProvideExogenousStore creates the ClickHouse exogenous series store.
func ProvideExogenousStore(client *pkgch.Client) repository.ExogenousStore {
	return internalrepo.NewExogenousStore(client)
}

// ProvidePublisher creates the Kafka forecast event publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.ForecastTopic)
}

// ProvideMarketData creates the rate-limited provider client. The API key
// falls back to the secrets file when not set in config or environment.
func ProvideMarketData(cfg *config.Config, log *logger.Logger) (*marketdata.Client, error) {
	apiKey := cfg.MarketData.APIKey
	if apiKey == "" {
		store, err := secrets.Load(cfg.MarketData.SecretsFile)
		if err != nil {
			return nil, err
		}
		apiKey, err = store.MustGet("marketdata_api_key")
		if err != nil {
			return nil, err
		}
	}

	opts := []marketdata.Option{
		marketdata.WithRateLimit(cfg.MarketData.RateBurst, cfg.MarketData.RatePerSec),
		marketdata.WithLogger(log),
	}
	if cfg.MarketData.BaseURL != "" {
		opts = append(opts, marketdata.WithBaseURL(cfg.MarketData.BaseURL))
	}
	return marketdata.New(apiKey, pkghttp.NewClient(), ratelimit.New(), opts...), nil
}

// ProvideSearchEngine creates the parallel order search engine.
func ProvideSearchEngine(cfg *config.Config, log *logger.Logger, m repository.Metrics) (*search.Engine, error) {
	limits := search.Limits{
		MaxP:         cfg.Forecast.MaxP,
		MaxD:         cfg.Forecast.MaxD,
		MaxQ:         cfg.Forecast.MaxQ,
		MaxSeasonalP: cfg.Forecast.MaxSeasonalP,
		MaxSeasonalD: cfg.Forecast.MaxSeasonalD,
		MaxSeasonalQ: cfg.Forecast.MaxSeasonalQ,
		Period:       cfg.Forecast.Period,
	}
	return search.NewEngine(limits, cfg.Forecast.Criterion,
		search.WithParallelism(cfg.Forecast.Parallelism),
		search.WithTrend(cfg.Forecast.Trend),
		search.WithLogger(log),
		search.WithFitObserver(func(f search.Fit) {
			outcome := "ok"
			if f.Infeasible {
				outcome = "infeasible"
			}
			m.RecordCandidateFit(outcome)
		}),
	)
}

// ProvidePriceForecaster assembles the forecast pipeline.
func ProvidePriceForecaster(
	cfg *config.Config,
	log *logger.Logger,
	m repository.Metrics,
	prices repository.PriceStore,
	exog repository.ExogenousStore,
	forecasts repository.ForecastStore,
	pub repository.Publisher,
	engine *search.Engine,
	cacheSvc pkgcache.Service,
) *usecase.PriceForecaster {
	return usecase.NewPriceForecaster(
		usecase.PriceForecasterDeps{
			Prices:    prices,
			Exogenous: exog,
			Forecasts: forecasts,
			Publisher: pub,
			Metrics:   m,
			Cleaner:   usecase.NewSeriesCleaner(cleaning.Options{LogTransform: true}, m, log),
			Smoother:  usecase.NewTrendService(cfg.Smoothing.Window, cfg.Smoothing.Iterations),
			Searcher:  usecase.NewOrderSearchService(engine),
			Caster:    usecase.NewForecastService(cfg.Forecast.Trend),
			Cache:     cacheSvc,
			Logger:    log,
		},
		usecase.PriceForecasterConfig{
			Horizon:      cfg.Forecast.Horizon,
			LookbackDays: cfg.MarketData.LookbackDays,
			Alpha:        cfg.Forecast.Alpha,
			Criterion:    cfg.Forecast.Criterion,
			ExogSeriesID: cfg.Forecast.ExogSeriesID,
			CacheTTL:     cfg.Forecast.CacheTTL,
		},
	)
}

// ProvideQueueRunner creates the Redis-backed job queue with the forecast
// job registered. The queue is started by the application lifecycle.
func ProvideQueueRunner(cfg *config.Config, log *logger.Logger, forecaster *usecase.PriceForecaster) *queue.RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	runner := queue.NewRedisQueue(log, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, client, queue.ModeProducerConsumer)
	runner.RegisterJob(usecase.NewForecastJob(forecaster, log))
	return runner
}

// ProvideQueueService exposes the runner as the publish-side interface.
func ProvideQueueService(runner *queue.RedisQueue) queue.QueueService {
	return runner
}

// ProvideHistoryRefresher creates the provider pull/clean/store pipeline.
func ProvideHistoryRefresher(
	cfg *config.Config,
	log *logger.Logger,
	m repository.Metrics,
	md *marketdata.Client,
	prices repository.PriceStore,
) *usecase.HistoryRefresher {
	return usecase.NewHistoryRefresher(md, md, prices, m, log, cfg.MarketData.LookbackDays)
}

// ProvideAPIHandler creates the HTTP handler.
func ProvideAPIHandler(
	forecaster *usecase.PriceForecaster,
	prices repository.PriceStore,
	q queue.QueueService,
	log *logger.Logger,
) pkghttp.Handler {
	return api.NewHandler(forecaster, prices, q, log)
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler pkghttp.Handler,
	consumer *pkgkafka.Consumer,
	refresher *usecase.HistoryRefresher,
	prices repository.PriceStore,
	forecasts repository.ForecastStore,
	exog repository.ExogenousStore,
	pub repository.Publisher,
	q queue.QueueService,
	runner *queue.RedisQueue,
) *server.App {
	requestHandler := usecase.NewForecastRequestHandler(cfg.Kafka.RequestTopic, q, log)
	app := server.New(cfg, log, handler, consumer, requestHandler, runner,
		prices, forecasts, exog, pub)
	app.SetRefresher(refresher)
	return app
}

func splitHostPort(addr string) (string, int) {
	host, port := "localhost", 6379
	if addr == "" {
		return host, port
	}
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
		if p, err := strconv.Atoi(addr[i+1:]); err == nil {
			port = p
		}
	} else {
		host = addr
	}
	return host, port
}
