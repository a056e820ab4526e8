package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

const (
	completedOrdersCollection = "completed-orders"
	usersCollection           = "users"
	spendLedgerCollection     = "spend-ledger"
)

// MongoArchive is the document-store alternative for the order archive and
// the spend ledger.
type MongoArchive struct {
	orders *mongo.Collection
	users  *mongo.Collection
	ledger *mongo.Collection
	now    func() time.Time
}

func NewMongoArchive(client *mongo.Client, database string) *MongoArchive {
	db := client.Database(database)
	return &MongoArchive{
		orders: db.Collection(completedOrdersCollection),
		users:  db.Collection(usersCollection),
		ledger: db.Collection(spendLedgerCollection),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ConnectMongo dials and pings the server.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (m *MongoArchive) ArchiveOrder(ctx context.Context, order domain.Order) (domain.ArchivedOrder, error) {
	rec := domain.ArchivedOrder{
		ArchiveID:  uuid.New().String(),
		Order:      order,
		ArchivedAt: m.now(),
	}
	if _, err := m.orders.InsertOne(ctx, rec); err != nil {
		return domain.ArchivedOrder{}, domain.NewTransportError("mongo: insert archived order", err)
	}
	return rec, nil
}

func (m *MongoArchive) DeleteArchivedOrder(ctx context.Context, archiveID string) error {
	_, err := m.orders.DeleteOne(ctx, bson.M{"_id": archiveID})
	return domain.NewTransportError("mongo: delete archived order", err)
}

func (m *MongoArchive) GetArchivedOrder(ctx context.Context, archiveID string) (*domain.ArchivedOrder, error) {
	return m.findOne(ctx, bson.M{"_id": archiveID}, archiveID)
}

func (m *MongoArchive) FindByOrderID(ctx context.Context, orderID string) (*domain.ArchivedOrder, error) {
	return m.findOne(ctx, bson.M{"order_id": orderID}, orderID)
}

func (m *MongoArchive) findOne(ctx context.Context, filter bson.M, id string) (*domain.ArchivedOrder, error) {
	var rec domain.ArchivedOrder
	err := m.orders.FindOne(ctx, filter).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("archived order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewTransportError("mongo: find archived order", err)
	}
	return &rec, nil
}

func (m *MongoArchive) ListArchivedOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.ArchivedOrder, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.CanteenID != "" {
		query["canteen_id"] = filter.CanteenID
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: archive listing needs a user or canteen", domain.ErrValidation)
	}

	cursor, err := m.orders.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "archived_at", Value: -1}}))
	if err != nil {
		return nil, domain.NewTransportError("mongo: list archived orders", err)
	}
	defer cursor.Close(ctx)

	var out []domain.ArchivedOrder
	if err := cursor.All(ctx, &out); err != nil {
		return nil, domain.NewTransportError("mongo: decode archived orders", err)
	}
	return out, nil
}

// RecordSpend appends a ledger document and bumps amountSpent on the user.
// The ledger document is removed again when the user update fails, so the
// ledger never holds an entry the running total does not include.
func (m *MongoArchive) RecordSpend(ctx context.Context, userID, orderID string, amount decimal.Decimal) error {
	value, err := primitive.ParseDecimal128(amount.String())
	if err != nil {
		return fmt.Errorf("convert amount %s: %w", amount, err)
	}

	now := m.now()
	entryID := primitive.NewObjectID()
	_, err = m.ledger.InsertOne(ctx, bson.M{
		"_id":        entryID,
		"user_id":    userID,
		"order_id":   orderID,
		"amount":     value,
		"created_at": now,
	})
	if err != nil {
		return domain.NewTransportError("mongo: insert ledger entry", err)
	}

	_, err = m.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc":         bson.M{"amountSpent": value},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err == nil {
		return nil
	}

	if _, delErr := m.ledger.DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": entryID}); delErr != nil {
		log.WithError(delErr).WithFields(log.Fields{
			"user_id":  userID,
			"order_id": orderID,
		}).Error("CRITICAL: ledger entry left without a matching amount spent update")
	}
	return domain.NewTransportError("mongo: update amount spent", err)
}

// EnsureIndexes creates the lookup indexes used by the archive queries.
func (m *MongoArchive) EnsureIndexes(ctx context.Context) error {
	_, err := m.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "archived_at", Value: -1}}},
		{Keys: bson.D{{Key: "canteen_id", Value: 1}, {Key: "archived_at", Value: -1}}},
	})
	return domain.NewTransportError("mongo: create indexes", err)
}

type userDocument struct {
	UID         string               `bson:"_id"`
	DisplayName string               `bson:"display_name"`
	Email       string               `bson:"email"`
	PhotoURL    string               `bson:"photo_url"`
	Role        domain.Role          `bson:"role"`
	AmountSpent primitive.Decimal128 `bson:"amountSpent"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (m *MongoArchive) UpsertUser(ctx context.Context, identity domain.Identity) error {
	now := m.now()
	_, err := m.users.UpdateOne(ctx,
		bson.M{"_id": identity.UID},
		bson.M{
			"$set": bson.M{
				"display_name": identity.DisplayName,
				"email":        identity.Email,
				"photo_url":    identity.PhotoURL,
				"role":         identity.Role,
				"updated_at":   now,
			},
			"$setOnInsert": bson.M{"created_at": now, "amountSpent": primitive.NewDecimal128(0, 0)},
		},
		options.Update().SetUpsert(true),
	)
	return domain.NewTransportError("mongo: upsert user", err)
}

func (m *MongoArchive) GetUser(ctx context.Context, uid string) (*domain.UserProfile, error) {
	var doc userDocument
	err := m.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.NewTransportError("mongo: find user", err)
	}

	spent, err := decimal.NewFromString(doc.AmountSpent.String())
	if err != nil {
		spent = decimal.Zero
	}
	role := doc.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	return &domain.UserProfile{
		UID:         doc.UID,
		DisplayName: doc.DisplayName,
		Email:       doc.Email,
		PhotoURL:    doc.PhotoURL,
		Role:        role,
		AmountSpent: spent,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}
