package rabbitmq_test

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rafaelleal24/shopping/internal/adapters/config"
	"github.com/rafaelleal24/shopping/internal/adapters/rabbitmq"
	"github.com/rafaelleal24/shopping/internal/core/domain"
	tcrabbit "github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

var (
	testPublisher    *rabbitmq.Publisher
	testAmqpEndpoint string
)

func testConfig(maxRetries int) config.RabbitMQConfig {
	return config.RabbitMQConfig{
		URL:        testAmqpEndpoint,
		MaxRetries: maxRetries,
		RetryDelay: 100 * time.Millisecond,
		ExchangeConfigs: []config.ExchangeConfig{
			{Name: "exchange.purchase", Type: "direct", Durable: true},
		},
	}
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcrabbit.Run(ctx, "rabbitmq:3-management-alpine")
	if err != nil {
		log.Fatalf("failed to start rabbitmq container: %v", err)
	}

	testAmqpEndpoint, err = container.AmqpURL(ctx)
	if err != nil {
		log.Fatalf("failed to get amqp url: %v", err)
	}

	testPublisher, err = rabbitmq.NewPublisher(testConfig(2))
	if err != nil {
		log.Fatalf("failed to create rabbitmq publisher: %v", err)
	}

	code := m.Run()

	_ = testPublisher.Close()
	_ = container.Terminate(ctx)

	os.Exit(code)
}

func consume(t *testing.T, routingKey string) <-chan amqp.Delivery {
	t.Helper()

	conn, err := amqp.Dial(testAmqpEndpoint)
	if err != nil {
		t.Fatalf("consumer dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("consumer channel failed: %v", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		t.Fatalf("queue declare failed: %v", err)
	}
	if err := ch.QueueBind(q.Name, routingKey, rabbitmq.ExchangeName("purchase"), false, nil); err != nil {
		t.Fatalf("queue bind failed: %v", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	return msgs
}

func TestExchangeName(t *testing.T) {
	if got := rabbitmq.ExchangeName("purchase"); got != "exchange.purchase" {
		t.Fatalf("expected exchange.purchase, got %s", got)
	}
}

func TestPublisher_HealthCheck(t *testing.T) {
	if err := testPublisher.HealthCheck(); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}
}

func TestPublisher_PublishRaw(t *testing.T) {
	ctx := context.Background()
	msgs := consume(t, "purchase.raw")

	body := []byte(`{"customer_id":1}`)
	if err := testPublisher.PublishRaw(ctx, "purchase.raw", "purchase", body); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case msg := <-msgs:
		if string(msg.Body) != string(body) {
			t.Fatalf("expected body %s, got %s", body, msg.Body)
		}
		if msg.Type != "purchase.raw" {
			t.Fatalf("expected type purchase.raw, got %s", msg.Type)
		}
		if msg.MessageId == "" {
			t.Fatal("expected message id")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestPublisher_PublishRaw_PurchaseEvent(t *testing.T) {
	ctx := context.Background()
	msgs := consume(t, "purchase.completed")

	cart := domain.NewCart(domain.NewCustomer(3, "33-33-33"))
	_ = cart.Add("widget", 4)
	event := domain.NewPurchaseCompletedEvent(cart, time.Now())
	event.Total = domain.NewAmountFromCents(3996)

	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := testPublisher.PublishRaw(ctx, event.GetName(), event.GetEntityName(), body); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case msg := <-msgs:
		var event domain.PurchaseCompletedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if event.CustomerID != 3 || event.Lines[0].ProductName != "widget" || event.Total != 3996 {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestPublisher_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("publish reconnects after the channel was closed", func(t *testing.T) {
		publisher, err := rabbitmq.NewPublisher(testConfig(3))
		if err != nil {
			t.Fatalf("failed to create publisher: %v", err)
		}
		defer publisher.Close()

		if err := publisher.PublishRaw(ctx, "purchase.before", "purchase", []byte(`{}`)); err != nil {
			t.Fatalf("initial publish failed: %v", err)
		}
		_ = publisher.Close()

		if err := publisher.PublishRaw(ctx, "purchase.after", "purchase", []byte(`{}`)); err != nil {
			t.Fatalf("publish after close failed: %v", err)
		}
	})

	t.Run("health check fails after close", func(t *testing.T) {
		publisher, err := rabbitmq.NewPublisher(testConfig(0))
		if err != nil {
			t.Fatalf("failed to create publisher: %v", err)
		}

		_ = publisher.Close()

		if err := publisher.HealthCheck(); err == nil {
			t.Fatal("expected health check to fail after close")
		}
	})

	t.Run("cancelled context stops publishing", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if err := testPublisher.PublishRaw(cancelled, "purchase.cancelled", "purchase", []byte(`{}`)); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}
