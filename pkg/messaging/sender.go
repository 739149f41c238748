// Package messaging broadcasts collection changes over RabbitMQ so other
// instances and consumers can react to pack, card, deck and collection
// updates.
package messaging

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cardbinder/cardbinder/pkg/collection"
	"github.com/cardbinder/cardbinder/pkg/common"
)

type ChangeTopic string

const (
	TopicPackChanged       ChangeTopic = "pack_changed"
	TopicCardChanged       ChangeTopic = "card_changed"
	TopicDeckChanged       ChangeTopic = "deck_changed"
	TopicCollectionChanged ChangeTopic = "collection_changed"
)

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := getName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return nil
}

func SendChange[V any](c *amqp.Connection, prefix string, topic ChangeTopic, data V) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := getName(prefix, topic)
	return ch.Publish(
		name,
		name,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}

// topicFor maps store change kinds onto wire topics. Deletions share the
// topic of their entity kind; consumers distinguish them by the payload.
func topicFor(kind collection.ChangeKind) ChangeTopic {
	switch kind {
	case collection.PackChanged, collection.PackDeleted:
		return TopicPackChanged
	case collection.CardChanged, collection.CardDeleted:
		return TopicCardChanged
	case collection.DeckChanged, collection.DeckDeleted:
		return TopicDeckChanged
	}
	return TopicCollectionChanged
}

// ChangePublisher queues store changes and publishes them in batches.
type ChangePublisher struct {
	conn   *amqp.Connection
	prefix string
	queue  *common.QueueHandler[collection.Change]
}

// NewChangePublisher connects to RabbitMQ and declares all change topics.
func NewChangePublisher(url, prefix string) (*ChangePublisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	for _, topic := range []ChangeTopic{TopicPackChanged, TopicCardChanged, TopicDeckChanged, TopicCollectionChanged} {
		if err := DefineTopic(ch, prefix, topic); err != nil {
			conn.Close()
			return nil, err
		}
	}
	p := &ChangePublisher{conn: conn, prefix: prefix}
	p.queue = common.NewQueueHandler(p.publish, 64)
	return p, nil
}

// Handle is wired as the store change hook.
func (p *ChangePublisher) Handle(change collection.Change) {
	p.queue.Add(change)
}

func (p *ChangePublisher) publish(changes []collection.Change) {
	for _, change := range changes {
		if err := SendChange(p.conn, p.prefix, topicFor(change.Kind), change); err != nil {
			log.Printf("Failed to publish %s for %s: %v", change.Kind, change.Id, err)
		}
	}
}

func (p *ChangePublisher) Close() {
	p.queue.Close()
	if err := p.conn.Close(); err != nil {
		log.Printf("Failed to close amqp connection: %v", err)
	}
}
