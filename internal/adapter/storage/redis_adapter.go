package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

const (
	orderKeyPrefix         = "order:"
	userOrdersKeyPrefix    = "orders:user:"
	canteenOrdersKeyPrefix = "orders:canteen:"
	orderChangesChannel    = "orders:changes"
)

// Returns 0 without writing when the order key already exists.
var createOrderScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end

redis.call('HSET', KEYS[1],
	'data', ARGV[1],
	'status', ARGV[2],
	'version', ARGV[3],
	'user_id', ARGV[4],
	'canteen_id', ARGV[5],
	'updated_at', ARGV[6])
redis.call('SADD', KEYS[2], ARGV[7])
redis.call('SADD', KEYS[3], ARGV[7])
redis.call('PUBLISH', ARGV[8], ARGV[9])
return 1
`)

// Returns -1 when the order is gone, 0 when the status moved on, 1 on success.
// The change is published from inside the script.
var updateStatusScript = redis.NewScript(`
local key = KEYS[1]
local expected = ARGV[1]

local fields = redis.call('HMGET', key, 'status', 'user_id', 'canteen_id')
if not fields[1] then
	return -1
end

if fields[1] ~= expected then
	return 0
end

redis.call('HSET', key, 'status', ARGV[2], 'updated_at', ARGV[3])
redis.call('HINCRBY', key, 'version', 1)
redis.call('PUBLISH', ARGV[4], cjson.encode({
	order_id = ARGV[5],
	user_id = fields[2],
	canteen_id = fields[3],
	kind = 'update'
}))
return 1
`)

// RedisOrderStore keeps active orders as hashes with per-user and per-canteen
// index sets, and announces every write on a pub/sub channel.
type RedisOrderStore struct {
	client *redis.Client
}

func NewRedisOrderStore(client *redis.Client) *RedisOrderStore {
	return &RedisOrderStore{client: client}
}

func (r *RedisOrderStore) CreateOrder(ctx context.Context, order domain.Order) (bool, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return false, fmt.Errorf("encode order %s: %w", order.ID, err)
	}
	change, err := json.Marshal(changeOf(order, domain.ChangeSet))
	if err != nil {
		return false, fmt.Errorf("encode change: %w", err)
	}

	keys := []string{
		orderKeyPrefix + order.ID,
		userOrdersKeyPrefix + order.UserID,
		canteenOrdersKeyPrefix + order.CanteenID,
	}
	result, err := createOrderScript.Run(ctx, r.client, keys,
		data, string(order.Status), order.Version, order.UserID, order.CanteenID,
		order.UpdatedAt.UTC().Format(time.RFC3339Nano), order.ID, orderChangesChannel, change,
	).Int()
	if err != nil {
		return false, domain.NewTransportError("redis: create order", err)
	}
	return result == 1, nil
}

func (r *RedisOrderStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	fields, err := r.client.HGetAll(ctx, orderKeyPrefix+orderID).Result()
	if err != nil {
		return nil, domain.NewTransportError("redis: get order", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}

	order, err := decodeOrder(fields)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *RedisOrderStore) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	result, err := updateStatusScript.Run(ctx, r.client, []string{orderKeyPrefix + orderID},
		string(from), string(to), time.Now().UTC().Format(time.RFC3339Nano), orderChangesChannel, orderID,
	).Int()
	if err != nil {
		return false, domain.NewTransportError("redis: update status", err)
	}

	return result == 1, nil
}

func (r *RedisOrderStore) DeleteOrder(ctx context.Context, orderID string) error {
	key := orderKeyPrefix + orderID
	owners, err := r.client.HMGet(ctx, key, "user_id", "canteen_id").Result()
	if err != nil {
		return domain.NewTransportError("redis: delete order", err)
	}
	userID, _ := owners[0].(string)
	canteenID, _ := owners[1].(string)
	if userID == "" && canteenID == "" {
		return nil
	}

	change, err := json.Marshal(domain.OrderChange{OrderID: orderID, UserID: userID, CanteenID: canteenID, Kind: domain.ChangeDelete})
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, userOrdersKeyPrefix+userID, orderID)
		pipe.SRem(ctx, canteenOrdersKeyPrefix+canteenID, orderID)
		pipe.Publish(ctx, orderChangesChannel, change)
		return nil
	})
	return domain.NewTransportError("redis: delete order", err)
}

func (r *RedisOrderStore) ListOrders(ctx context.Context, filter domain.OrderFilter) (map[string]domain.Order, error) {
	indexKey := userOrdersKeyPrefix + filter.UserID
	if filter.UserID == "" {
		indexKey = canteenOrdersKeyPrefix + filter.CanteenID
	}

	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, domain.NewTransportError("redis: list orders", err)
	}

	out := make(map[string]domain.Order, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, orderKeyPrefix+id)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewTransportError("redis: list orders", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Deleted between SMEMBERS and HGETALL.
			continue
		}
		order, err := decodeOrder(fields)
		if err != nil {
			log.WithError(err).WithField("order_id", ids[i]).Warn("skipping unreadable order")
			continue
		}
		// A terminal order left behind by a failed delete is not active.
		if order.Status.IsActive() && order.Matches(filter) {
			out[order.ID] = order
		}
	}
	return out, nil
}

// Changes subscribes to the change channel. The returned channel closes when
// ctx is done or the subscription breaks.
func (r *RedisOrderStore) Changes(ctx context.Context) (<-chan domain.OrderChange, error) {
	pubsub := r.client.Subscribe(ctx, orderChangesChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, domain.NewTransportError("redis: subscribe", err)
	}

	out := make(chan domain.OrderChange, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()

		for {
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.WithError(err).Warn("order change subscription interrupted")
				}
				return
			}

			var change domain.OrderChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				log.WithError(err).Warn("discarding malformed order change")
				continue
			}

			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func changeOf(order domain.Order, kind domain.ChangeKind) domain.OrderChange {
	return domain.OrderChange{OrderID: order.ID, UserID: order.UserID, CanteenID: order.CanteenID, Kind: kind}
}

// decodeOrder reads the stored document and overlays the fields the status
// script mutates in place.
func decodeOrder(fields map[string]string) (domain.Order, error) {
	var order domain.Order
	if err := json.Unmarshal([]byte(fields["data"]), &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}

	order.Status = domain.OrderStatus(fields["status"])
	if v, err := strconv.ParseInt(fields["version"], 10, 64); err == nil {
		order.Version = v
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		order.UpdatedAt = ts
	}
	return order, nil
}
