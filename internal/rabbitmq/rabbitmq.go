package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	POST_SUBMITTED_QUEUE = "post_service.post_submitted"
	POST_APPROVED_QUEUE  = "post_service.post_approved"
)

var declaredQueues = []string{
	POST_SUBMITTED_QUEUE,
	POST_APPROVED_QUEUE,
}

type MQConn struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func New(connString string) (*MQConn, error) {
	conn, err := amqp.Dial(connString)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, queue := range declaredQueues {
		if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return nil, err
		}
	}

	return &MQConn{
		conn:    conn,
		channel: channel,
	}, nil
}

func (mq *MQConn) PublishJSON(ctx context.Context, queue string, body []byte) error {
	return mq.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (mq *MQConn) Consume(queue string) (<-chan amqp.Delivery, error) {
	return mq.channel.Consume(queue, "", false, false, false, false, nil)
}

func (mq *MQConn) Close() error {
	if err := mq.channel.Close(); err != nil {
		return err
	}
	return mq.conn.Close()
}
