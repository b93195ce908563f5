package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
)

type ConfirmationRepository struct {
	col *mongo.Collection
}

func NewConfirmationRepository(db *mongo.Database) *ConfirmationRepository {
	return &ConfirmationRepository{col: db.Collection("sent_confirmations")}
}

func (r *ConfirmationRepository) Save(ctx context.Context, c *domainnotify.SentConfirmation) error {
	doc := confirmationDocument{
		ID:        c.ID,
		LenderID:  string(c.LenderID),
		Kind:      string(c.Kind),
		SubjectID: c.SubjectID,
		Language:  string(c.Language),
		Recipient: c.Recipient,
		SentAt:    c.SentAt.UnixMilli(),
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *ConfirmationRepository) List(ctx context.Context) ([]*domainnotify.SentConfirmation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainnotify.SentConfirmation
	for cursor.Next(ctx) {
		var doc confirmationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domainnotify.SentConfirmation{
			ID:        doc.ID,
			LenderID:  domainlender.LenderID(doc.LenderID),
			Kind:      domainnotify.Kind(doc.Kind),
			SubjectID: doc.SubjectID,
			Language:  domainlender.Language(doc.Language),
			Recipient: doc.Recipient,
			SentAt:    timestampToTime(doc.SentAt),
		})
	}
	return out, cursor.Err()
}

type confirmationDocument struct {
	ID        string `bson:"_id"`
	LenderID  string `bson:"lender_id"`
	Kind      string `bson:"kind"`
	SubjectID string `bson:"subject_id"`
	Language  string `bson:"language"`
	Recipient string `bson:"recipient"`
	SentAt    int64  `bson:"sent_at"`
}
