package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/samvad-hq/samvad-news-curator/internal/logger"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   client,
		log:      &logger.NopLogger{},
	}

	if err := pub.Publish(context.Background(), sampleArticleEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["provider_id"]
	if !ok || aws.ToString(attr.StringValue) != "provider-1" {
		t.Fatalf("provider_id attribute missing or wrong: %#v", attr)
	}
	if aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if got := aws.ToString(client.input.MessageAttributes["event_type"].StringValue); got != EventTypeArticle {
		t.Fatalf("event_type attribute = %q", got)
	}
	body := aws.ToString(client.input.MessageBody)
	if !strings.Contains(body, `"run_id":"run-1"`) || !strings.Contains(body, `"link":"https://www.bbc.co.uk/news/1"`) {
		t.Fatalf("MessageBody missing fields: %s", body)
	}
}

func TestSQSPublisherOmitsEmptyAttributes(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", queueURL: "q", client: client, log: &logger.NopLogger{}}

	evt := sampleArticleEvent()
	evt.ProviderID = ""
	evt.RunID = ""
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, ok := client.input.MessageAttributes["provider_id"]; ok {
		t.Fatalf("empty provider_id should not be sent")
	}
	if _, ok := client.input.MessageAttributes["run_id"]; ok {
		t.Fatalf("empty run_id should not be sent")
	}
}

func TestSQSPublisherPublishError(t *testing.T) {
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   &fakeSQSClient{err: errors.New("boom")},
		log:      &logger.NopLogger{},
	}

	if err := pub.Publish(context.Background(), sampleArticleEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestNewSQSPublisherWithStaticCredentials(t *testing.T) {
	pub, err := newSQSPublisher(context.Background(), PublisherConfig{
		ID:   "queue",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL:       "http://localhost:4566/000000000000/curated",
			Region:         "us-east-1",
			Endpoint:       "http://localhost:4566",
			AWSCredentials: AWSCredentials{AccessKeyID: "test", SecretAccessKey: "test"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSQSPublisher: %v", err)
	}
	if pub.ID() != "queue" || pub.Type() != TypeSQS {
		t.Fatalf("unexpected publisher %s/%s", pub.ID(), pub.Type())
	}
}

func TestSQSPublisherFIFOQueue(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "fifo", queueURL: "https://sqs.us-east-1.amazonaws.com/1/curated.fifo", client: client, log: &logger.NopLogger{}}

	evt := sampleArticleEvent()
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.MessageGroupId); got != "run-1" {
		t.Fatalf("MessageGroupId = %q", got)
	}
	dedup := aws.ToString(client.input.MessageDeduplicationId)
	if len(dedup) != 64 || dedup != dedupID(evt.Key()) {
		t.Fatalf("unexpected dedup id %q", dedup)
	}

	plain := &fakeSQSClient{}
	pub.client, pub.queueURL = plain, "https://sqs.us-east-1.amazonaws.com/1/curated"
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if plain.input.MessageGroupId != nil || plain.input.MessageDeduplicationId != nil {
		t.Fatalf("standard queues must not carry FIFO fields")
	}
}
